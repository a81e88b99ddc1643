package store

import (
	"context"

	"collab-poll-backend/models"
)

// OptionUpdate describes an in-place text/position change to an existing option.
type OptionUpdate struct {
	ID        uint
	Text      string
	SortOrder int
}

// OptionBatch is the plan for a bulk option replacement. The store applies the
// whole batch inside one transaction; a partially applied batch is never
// observable.
type OptionBatch struct {
	DeleteIDs []uint
	Updates   []OptionUpdate
	Creates   []models.PollOption
}

// PollStore is the persistence boundary consumed by the vote engine, the
// option lifecycle manager and the poll facade. The only shared mutable
// resource in the system; all mutation goes through it.
type PollStore interface {
	// Polls
	FindPoll(ctx context.Context, id uint) (*models.Poll, error)
	CreatePoll(ctx context.Context, poll *models.Poll) error
	UpdatePollOptions(ctx context.Context, pollID uint, batch OptionBatch) error

	// Options
	FindOption(ctx context.Context, id uint) (*models.PollOption, error)
	FindOptionsByPoll(ctx context.Context, pollID uint) ([]models.PollOption, error)
	CreateOption(ctx context.Context, option *models.PollOption) error
	CountVotesByOption(ctx context.Context, optionIDs []uint) (map[uint]int64, error)

	// Votes
	FindVote(ctx context.Context, optionID uint, userID string) (*models.Vote, error)
	CreateVote(ctx context.Context, vote *models.Vote) error
	ReplaceUserVote(ctx context.Context, pollID uint, vote *models.Vote) error
	DeleteVote(ctx context.Context, id uint) error
	FindVotesByUser(ctx context.Context, userID string, pollID *uint) ([]models.Vote, error)
	FindVotesByPoll(ctx context.Context, pollID uint) ([]models.Vote, error)

	// Users
	FindUser(ctx context.Context, id string) (*models.User, error)
	FindUsers(ctx context.Context, ids []string) ([]models.User, error)
	CreateUser(ctx context.Context) (*models.User, error)
	UpdateUserName(ctx context.Context, id, name string) error
}
