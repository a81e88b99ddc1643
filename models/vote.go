package models

import "time"

// Vote links a user to an option. The composite unique index is the store-level
// backstop for the at-most-one-vote-per-(option, user) invariant: two requests
// racing past the duplicate check cannot both insert.
//
// Votes are hard-deleted (no DeletedAt): a soft-deleted row would keep holding
// the unique slot and block the user from re-voting the same option.
type Vote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	OptionID  uint      `gorm:"not null;uniqueIndex:idx_votes_option_user" json:"optionId"`
	UserID    string    `gorm:"not null;size:36;uniqueIndex:idx_votes_option_user" json:"userId"`
}
