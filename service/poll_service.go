package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"collab-poll-backend/models"
	"collab-poll-backend/store"

	"gorm.io/gorm"
)

// adminTokenBytes sizes the admin secret: 12 random bytes, hex-encoded to a
// 24-character token carried in the admin link.
const adminTokenBytes = 12

// PollService is the poll facade: creation with admin-token generation and
// the denormalized snapshot read model.
type PollService struct {
	store   store.PollStore
	baseURL string
}

// NewPollService builds the facade. baseURL is the public origin used to
// assemble voter/admin links.
func NewPollService(s store.PollStore, baseURL string) *PollService {
	return &PollService{store: s, baseURL: strings.TrimRight(baseURL, "/")}
}

// PollSettings are the creation-time poll toggles.
type PollSettings struct {
	AllowMultipleVotes      bool
	AllowVotersToAddOptions bool
}

// PollLinks are the two share links returned at creation. The admin link is
// the voter link plus the token query parameter.
type PollLinks struct {
	VoteLink  string `json:"voteLink"`
	AdminLink string `json:"adminLink"`
}

// CreatePoll creates a poll and its initial options atomically. Option order
// is the slice index. The admin token is generated here, stored once, and
// never mutated afterwards.
func (s *PollService) CreatePoll(ctx context.Context, question, creatorUserID string, optionTexts []string, settings PollSettings) (*models.Poll, *PollLinks, error) {
	if strings.TrimSpace(question) == "" {
		return nil, nil, ErrMissingQuestion
	}
	if len(optionTexts) == 0 {
		return nil, nil, ErrInvalidOptions
	}

	token, err := newAdminToken()
	if err != nil {
		return nil, nil, err
	}

	options := make([]models.PollOption, len(optionTexts))
	for i, text := range optionTexts {
		options[i] = models.PollOption{Text: text, SortOrder: i}
	}

	poll := &models.Poll{
		Question:                question,
		AllowMultipleVotes:      settings.AllowMultipleVotes,
		AllowVotersToAddOptions: settings.AllowVotersToAddOptions,
		AdminToken:              token,
		CreatorID:               creatorUserID,
		Options:                 options,
	}

	if err := s.store.CreatePoll(ctx, poll); err != nil {
		return nil, nil, err
	}

	links := &PollLinks{
		VoteLink:  fmt.Sprintf("%s/polls/%d", s.baseURL, poll.ID),
		AdminLink: fmt.Sprintf("%s/polls/%d?token=%s", s.baseURL, poll.ID, token),
	}
	return poll, links, nil
}

// IsAdmin reports whether the supplied token proves ownership of the poll.
// Always a plain equality test; tokens never expire.
func (s *PollService) IsAdmin(poll *models.Poll, token string) bool {
	return token != "" && token == poll.AdminToken
}

// VoteView is a vote as it appears in a snapshot, with the voter's display
// name resolved at read time.
type VoteView struct {
	ID        uint   `json:"id"`
	VoterName string `json:"voterName"`
}

// OptionView is an option plus its votes.
type OptionView struct {
	ID    uint       `json:"id"`
	Text  string     `json:"text"`
	Order int        `json:"order"`
	Votes []VoteView `json:"votes"`
}

// PollSnapshot is the fully denormalized read model of a poll: its settings,
// its options in display order, and every vote with a resolved voter name.
// The admin token is deliberately absent.
type PollSnapshot struct {
	ID                      uint         `json:"id"`
	Question                string       `json:"question"`
	AllowMultipleVotes      bool         `json:"allowMultipleVotes"`
	AllowVotersToAddOptions bool         `json:"allowVotersToAddOptions"`
	CreatedAt               time.Time    `json:"createdAt"`
	Options                 []OptionView `json:"options"`
}

// GetPollSnapshot assembles the read model: options ascending by order, votes
// grouped per option, voter names projected from the user table. Nothing here
// is cached or stored; every call reads the authoritative state.
func (s *PollService) GetPollSnapshot(ctx context.Context, pollID uint) (*PollSnapshot, error) {
	poll, err := s.store.FindPoll(ctx, pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}

	options, err := s.store.FindOptionsByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	votes, err := s.store.FindVotesByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(votes))
	seen := make(map[string]bool, len(votes))
	for _, v := range votes {
		if !seen[v.UserID] {
			seen[v.UserID] = true
			userIDs = append(userIDs, v.UserID)
		}
	}

	users, err := s.store.FindUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	usersByID := make(map[string]models.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	votesByOption := make(map[uint][]VoteView, len(options))
	for _, v := range votes {
		votesByOption[v.OptionID] = append(votesByOption[v.OptionID], VoteView{
			ID:        v.ID,
			VoterName: ResolveVoterName(v, usersByID),
		})
	}

	snapshot := &PollSnapshot{
		ID:                      poll.ID,
		Question:                poll.Question,
		AllowMultipleVotes:      poll.AllowMultipleVotes,
		AllowVotersToAddOptions: poll.AllowVotersToAddOptions,
		CreatedAt:               poll.CreatedAt,
		Options:                 make([]OptionView, len(options)),
	}

	for i, opt := range options {
		views := votesByOption[opt.ID]
		if views == nil {
			views = []VoteView{}
		}
		snapshot.Options[i] = OptionView{
			ID:    opt.ID,
			Text:  opt.Text,
			Order: opt.SortOrder,
			Votes: views,
		}
	}

	return snapshot, nil
}

// ResolveVoterName projects a vote's display name from the user table at read
// time. Falls back to "Anonymous" for unnamed or missing users.
func ResolveVoterName(vote models.Vote, usersByID map[string]models.User) string {
	if user, ok := usersByID[vote.UserID]; ok && user.Name != "" {
		return user.Name
	}
	return "Anonymous"
}

func newAdminToken() (string, error) {
	buf := make([]byte, adminTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate admin token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
