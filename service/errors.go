package service

import "errors"

// Domain errors. Handlers map these to HTTP statuses; nothing below the
// facade boundary speaks HTTP.
var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrOptionNotFound = errors.New("option not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrVoteNotFound   = errors.New("vote not found")

	ErrUnauthorized = errors.New("invalid or missing admin token")

	ErrMissingQuestion = errors.New("question is required")
	ErrMissingText     = errors.New("option text is required")
	ErrMissingName     = errors.New("name is required")
	ErrInvalidOptions  = errors.New("options list is missing or empty")
	ErrEmptyOptionList = errors.New("option list must not be empty")

	// ErrOptionHasVotes rejects bulk updates that would delete or retext an
	// option somebody already voted for. Repositioning stays allowed.
	ErrOptionHasVotes = errors.New("option has votes and cannot be deleted or retexted")
)
