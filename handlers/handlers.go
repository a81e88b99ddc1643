package handlers

import "collab-poll-backend/service"

// Package-level service references, set once at startup. Services carry the
// injected store; handlers stay thin translation layers between HTTP and the
// domain.
var (
	pollService   *service.PollService
	optionService *service.OptionService
	voteService   *service.VoteService
	userService   *service.UserService
)

// InitHandlers wires the service layer into the handler package.
func InitHandlers(polls *service.PollService, options *service.OptionService, votes *service.VoteService, users *service.UserService) {
	pollService = polls
	optionService = options
	voteService = votes
	userService = users
}
