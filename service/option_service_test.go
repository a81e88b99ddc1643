package service

import (
	"context"
	"testing"

	"collab-poll-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOption_OrderAppends(t *testing.T) {
	pollStore, db := newTestStore(t)
	manager := NewOptionService(pollStore)
	ctx := context.Background()

	poll := seedPoll(t, db, false, "A", "B")

	// Leave a gap: the next order is max+1, never a renumbering of the rest.
	require.NoError(t, db.Model(&models.PollOption{}).
		Where("id = ?", poll.Options[1].ID).
		Update("sort_order", 5).Error)

	option, err := manager.AddOption(ctx, poll.ID, "C", "seed-admin-token")
	require.NoError(t, err)
	assert.Equal(t, 6, option.SortOrder)
	assert.Equal(t, "C", option.Text)

	var untouched models.PollOption
	require.NoError(t, db.First(&untouched, poll.Options[0].ID).Error)
	assert.Equal(t, 0, untouched.SortOrder)
}

func TestAddOption_Authorization(t *testing.T) {
	pollStore, db := newTestStore(t)
	manager := NewOptionService(pollStore)
	ctx := context.Background()

	closed := seedPoll(t, db, false, "A")

	_, err := manager.AddOption(ctx, closed.ID, "B", "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = manager.AddOption(ctx, closed.ID, "B", "wrong-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = manager.AddOption(ctx, closed.ID, "B", "seed-admin-token")
	assert.NoError(t, err)

	open := models.Poll{Question: "Open?", AdminToken: "other-token", AllowVotersToAddOptions: true}
	require.NoError(t, db.Create(&open).Error)
	_, err = manager.AddOption(ctx, open.ID, "Voter pick", "")
	assert.NoError(t, err)
}

func TestAddOption_Validation(t *testing.T) {
	pollStore, db := newTestStore(t)
	manager := NewOptionService(pollStore)
	ctx := context.Background()

	poll := seedPoll(t, db, false, "A")

	_, err := manager.AddOption(ctx, poll.ID, "   ", "seed-admin-token")
	assert.ErrorIs(t, err, ErrMissingText)

	_, err = manager.AddOption(ctx, 99999, "B", "seed-admin-token")
	assert.ErrorIs(t, err, ErrPollNotFound)
}

func TestReplaceOptionSet_Plan(t *testing.T) {
	pollStore, db := newTestStore(t)
	manager := NewOptionService(pollStore)
	ctx := context.Background()

	poll := seedPoll(t, db, false, "Keep", "Drop")
	kept := poll.Options[0]

	err := manager.ReplaceOptionSet(ctx, poll.ID, []OptionDescriptor{
		{ID: &kept.ID, Text: "Kept renamed", Order: 1},
		{Text: "Created", Order: 0},
	}, "seed-admin-token")
	require.NoError(t, err)

	var options []models.PollOption
	db.Where("poll_id = ?", poll.ID).Order("sort_order asc").Find(&options)
	require.Len(t, options, 2)
	assert.Equal(t, "Created", options[0].Text)
	assert.Equal(t, kept.ID, options[1].ID)
	assert.Equal(t, "Kept renamed", options[1].Text)
	assert.Equal(t, 1, options[1].SortOrder)
}

func TestReplaceOptionSet_StaleIDBecomesCreate(t *testing.T) {
	pollStore, db := newTestStore(t)
	manager := NewOptionService(pollStore)
	ctx := context.Background()

	poll := seedPoll(t, db, false, "A")

	// An id that no longer exists (edited from a stale admin tab) falls back
	// to creation instead of failing the batch.
	stale := uint(99999)
	err := manager.ReplaceOptionSet(ctx, poll.ID, []OptionDescriptor{
		{ID: &poll.Options[0].ID, Text: "A", Order: 0},
		{ID: &stale, Text: "Resurrected", Order: 1},
	}, "seed-admin-token")
	require.NoError(t, err)

	var options []models.PollOption
	db.Where("poll_id = ?", poll.ID).Order("sort_order asc").Find(&options)
	require.Len(t, options, 2)
	assert.Equal(t, "Resurrected", options[1].Text)
	assert.NotEqual(t, stale, options[1].ID)
}

func TestReplaceOptionSet_RepeatedIDFirstEntryWins(t *testing.T) {
	pollStore, db := newTestStore(t)
	manager := NewOptionService(pollStore)
	ctx := context.Background()

	poll := seedPoll(t, db, false, "Original")
	target := poll.Options[0]

	err := manager.ReplaceOptionSet(ctx, poll.ID, []OptionDescriptor{
		{ID: &target.ID, Text: "First", Order: 1},
		{ID: &target.ID, Text: "Second", Order: 7},
	}, "seed-admin-token")
	require.NoError(t, err)

	var options []models.PollOption
	db.Where("poll_id = ?", poll.ID).Find(&options)
	require.Len(t, options, 1)
	assert.Equal(t, target.ID, options[0].ID)
	assert.Equal(t, "First", options[0].Text)
	assert.Equal(t, 1, options[0].SortOrder)
}

func TestReplaceOptionSet_VotedOptionRules(t *testing.T) {
	pollStore, db := newTestStore(t)
	manager := NewOptionService(pollStore)
	ctx := context.Background()

	poll := seedPoll(t, db, false, "Voted", "Free")
	voted := poll.Options[0]
	voter := seedUser(t, db, "")
	require.NoError(t, db.Create(&models.Vote{OptionID: voted.ID, UserID: voter.ID}).Error)

	// Deleting the voted option fails the whole batch.
	err := manager.ReplaceOptionSet(ctx, poll.ID, []OptionDescriptor{
		{ID: &poll.Options[1].ID, Text: "Free", Order: 0},
	}, "seed-admin-token")
	assert.ErrorIs(t, err, ErrOptionHasVotes)

	// So does changing its text.
	err = manager.ReplaceOptionSet(ctx, poll.ID, []OptionDescriptor{
		{ID: &voted.ID, Text: "Reworded", Order: 0},
		{ID: &poll.Options[1].ID, Text: "Free", Order: 1},
	}, "seed-admin-token")
	assert.ErrorIs(t, err, ErrOptionHasVotes)

	// Repositioning it with the text intact is fine.
	err = manager.ReplaceOptionSet(ctx, poll.ID, []OptionDescriptor{
		{ID: &voted.ID, Text: "Voted", Order: 3},
		{ID: &poll.Options[1].ID, Text: "Free", Order: 0},
	}, "seed-admin-token")
	require.NoError(t, err)

	var moved models.PollOption
	require.NoError(t, db.First(&moved, voted.ID).Error)
	assert.Equal(t, 3, moved.SortOrder)

	// A rejected batch left nothing behind.
	var count int64
	db.Model(&models.PollOption{}).Where("poll_id = ?", poll.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestReplaceOptionSet_Guards(t *testing.T) {
	pollStore, db := newTestStore(t)
	manager := NewOptionService(pollStore)
	ctx := context.Background()

	poll := seedPoll(t, db, false, "A")

	err := manager.ReplaceOptionSet(ctx, poll.ID, nil, "seed-admin-token")
	assert.ErrorIs(t, err, ErrEmptyOptionList)

	err = manager.ReplaceOptionSet(ctx, poll.ID, []OptionDescriptor{{Text: "B"}}, "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = manager.ReplaceOptionSet(ctx, 99999, []OptionDescriptor{{Text: "B"}}, "seed-admin-token")
	assert.ErrorIs(t, err, ErrPollNotFound)
}
