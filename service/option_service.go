package service

import (
	"context"
	"errors"
	"strings"

	"collab-poll-backend/models"
	"collab-poll-backend/store"

	"gorm.io/gorm"
)

// OptionService is the option lifecycle manager: single additions by voters or
// admins, and the admin bulk edit that replaces the whole option set.
type OptionService struct {
	store store.PollStore
}

func NewOptionService(s store.PollStore) *OptionService {
	return &OptionService{store: s}
}

// OptionDescriptor is one entry of a bulk replacement. A nil ID (or an ID that
// no longer exists) means "create"; a matching ID means "update in place".
type OptionDescriptor struct {
	ID    *uint  `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// AddOption appends one option to a poll. Allowed for the admin (token match)
// or, when the poll permits it, for any voter. The new option always lands at
// max(existing orders)+1; existing options are never renumbered on insert.
func (s *OptionService) AddOption(ctx context.Context, pollID uint, text, requesterToken string) (*models.PollOption, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrMissingText
	}

	poll, err := s.store.FindPoll(ctx, pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}

	isAdmin := requesterToken != "" && requesterToken == poll.AdminToken
	if !isAdmin && !poll.AllowVotersToAddOptions {
		return nil, ErrUnauthorized
	}

	existing, err := s.store.FindOptionsByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	nextOrder := 0
	for _, opt := range existing {
		if opt.SortOrder >= nextOrder {
			nextOrder = opt.SortOrder + 1
		}
	}

	option := &models.PollOption{
		PollID:    pollID,
		Text:      text,
		SortOrder: nextOrder,
	}
	if err := s.store.CreateOption(ctx, option); err != nil {
		return nil, err
	}
	return option, nil
}

// ReplaceOptionSet is the admin bulk edit. The desired list is authoritative:
// existing options absent from it are deleted, matching ids are updated in
// place, id-less entries are created. Blank-text creations are silently
// dropped; caller-supplied order values are stored as given, without
// renormalization. When the list names the same id twice, the first entry
// wins and the repeats are dropped, so the plan holds at most one update per
// option.
//
// Options that carry votes are live: the batch is rejected whole with
// ErrOptionHasVotes if it would delete one or change its text. The store
// applies the surviving plan in a single transaction.
func (s *OptionService) ReplaceOptionSet(ctx context.Context, pollID uint, desired []OptionDescriptor, requesterToken string) error {
	if len(desired) == 0 {
		return ErrEmptyOptionList
	}

	poll, err := s.store.FindPoll(ctx, pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPollNotFound
		}
		return err
	}

	if requesterToken == "" || requesterToken != poll.AdminToken {
		return ErrUnauthorized
	}

	existing, err := s.store.FindOptionsByPoll(ctx, pollID)
	if err != nil {
		return err
	}

	existingByID := make(map[uint]models.PollOption, len(existing))
	existingIDs := make([]uint, 0, len(existing))
	for _, opt := range existing {
		existingByID[opt.ID] = opt
		existingIDs = append(existingIDs, opt.ID)
	}

	keep := make(map[uint]bool, len(desired))
	for _, d := range desired {
		if d.ID != nil {
			if _, ok := existingByID[*d.ID]; ok {
				keep[*d.ID] = true
			}
		}
	}

	voteCounts, err := s.store.CountVotesByOption(ctx, existingIDs)
	if err != nil {
		return err
	}

	var batch store.OptionBatch

	for _, opt := range existing {
		if keep[opt.ID] {
			continue
		}
		if voteCounts[opt.ID] > 0 {
			return ErrOptionHasVotes
		}
		batch.DeleteIDs = append(batch.DeleteIDs, opt.ID)
	}

	planned := make(map[uint]bool, len(desired))
	for _, d := range desired {
		if d.ID != nil && keep[*d.ID] {
			if planned[*d.ID] {
				continue
			}
			planned[*d.ID] = true
			current := existingByID[*d.ID]
			if voteCounts[*d.ID] > 0 && d.Text != current.Text {
				return ErrOptionHasVotes
			}
			batch.Updates = append(batch.Updates, store.OptionUpdate{
				ID:        *d.ID,
				Text:      d.Text,
				SortOrder: d.Order,
			})
			continue
		}

		text := strings.TrimSpace(d.Text)
		if text == "" {
			continue
		}
		batch.Creates = append(batch.Creates, models.PollOption{
			Text:      text,
			SortOrder: d.Order,
		})
	}

	return s.store.UpdatePollOptions(ctx, pollID, batch)
}
