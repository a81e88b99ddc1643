package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"collab-poll-backend/cache"
	"collab-poll-backend/models"
	"collab-poll-backend/store"

	"gorm.io/gorm"
)

// VoteService is the vote reconciliation engine. It enforces the one-vote-per-
// (option, user) invariant and the single-vote-mode rule that a user holds at
// most one vote across a whole poll.
type VoteService struct {
	store store.PollStore
	locks *cache.DistributedLockService // nil when Redis is down
}

// NewVoteService builds the engine. locks may be nil; single-vote casts then
// rely on the store transaction alone.
func NewVoteService(s store.PollStore, locks *cache.DistributedLockService) *VoteService {
	return &VoteService{store: s, locks: locks}
}

// CastResult reports the vote a cast resolved to. Duplicate is true when the
// user had already voted this option and the existing row was returned.
type CastResult struct {
	Vote      *models.Vote
	Duplicate bool
}

// CastVote records a vote by userID on optionID.
//
// Casting twice on the same option is idempotent: the existing vote is
// returned, never a second row. In single-vote-mode polls any prior vote by
// the user elsewhere in the poll is retracted in the same transaction as the
// insert, so a failure leaves the user with zero votes rather than a wrong
// one.
func (s *VoteService) CastVote(ctx context.Context, optionID uint, userID string) (*CastResult, error) {
	option, err := s.store.FindOption(ctx, optionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}

	if _, err := s.store.FindUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Fast path for double submits.
	if existing, err := s.store.FindVote(ctx, optionID, userID); err == nil {
		return &CastResult{Vote: existing, Duplicate: true}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	poll, err := s.store.FindPoll(ctx, option.PollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}

	vote := &models.Vote{OptionID: optionID, UserID: userID}

	if poll.AllowMultipleVotes {
		err = s.store.CreateVote(ctx, vote)
	} else {
		err = s.castSingle(ctx, poll.ID, vote)
	}

	if err != nil {
		// Two requests can both pass the duplicate check; the unique index on
		// (option_id, user_id) is the backstop. The loser re-reads the winner.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, findErr := s.store.FindVote(ctx, optionID, userID)
			if findErr != nil {
				return nil, findErr
			}
			return &CastResult{Vote: existing, Duplicate: true}, nil
		}
		return nil, err
	}

	return &CastResult{Vote: vote, Duplicate: false}, nil
}

// castSingle performs the retract-then-cast for single-vote-mode polls. A
// best-effort distributed lock narrows the window where two concurrent casts
// by the same user could momentarily coexist; the transaction inside
// ReplaceUserVote keeps each cast internally consistent either way.
func (s *VoteService) castSingle(ctx context.Context, pollID uint, vote *models.Vote) error {
	if s.locks == nil {
		return s.store.ReplaceUserVote(ctx, pollID, vote)
	}

	lockName := fmt.Sprintf("vote:poll:%d:user:%s", pollID, vote.UserID)
	err := s.locks.WithLock(lockName, 5*time.Second, func() error {
		return s.store.ReplaceUserVote(ctx, pollID, vote)
	})
	if errors.Is(err, cache.ErrLockNotAcquired) {
		// Proceed unlocked rather than fail the vote; the next read
		// reconciles through the same single-vote logic.
		log.Printf("vote lock unavailable for %s, casting without it", lockName)
		return s.store.ReplaceUserVote(ctx, pollID, vote)
	}
	return err
}

// RetractVote deletes a vote by id. A vote that is already gone (double-click
// race) reports ErrVoteNotFound so the client can treat it as already
// satisfied.
func (s *VoteService) RetractVote(ctx context.Context, voteID uint) error {
	err := s.store.DeleteVote(ctx, voteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrVoteNotFound
	}
	return err
}

// ListVotes returns all votes by a user, optionally scoped to one poll. Used
// to reconstruct what the user already voted for on page load.
func (s *VoteService) ListVotes(ctx context.Context, userID string, pollID *uint) ([]models.Vote, error) {
	if _, err := s.store.FindUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.store.FindVotesByUser(ctx, userID, pollID)
}
