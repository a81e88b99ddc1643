package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"collab-poll-backend/service"

	"github.com/gin-gonic/gin"
)

// CastVoteInput identifies the option and the voter. Identity is resolved at
// the request boundary and passed explicitly; the engine never reads cookies.
type CastVoteInput struct {
	OptionID uint   `json:"optionId" binding:"required"`
	UserID   string `json:"userId" binding:"required"`
}

// CastVote handles POST /api/votes.
//
// Casting an option the user already voted is absorbed as idempotent success:
// the response carries the existing vote and duplicate=true, and no second
// row is ever created. Clients that double-submit see the same answer twice.
func CastVote(c *gin.Context) {
	var input CastVoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "optionId and userId are required"})
		return
	}

	result, err := voteService.CastVote(c.Request.Context(), input.OptionID, input.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOptionNotFound), errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Option or user not found"})
		default:
			log.Printf("failed to cast vote: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vote"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vote":      result.Vote,
		"duplicate": result.Duplicate,
	})
}

// RetractVote handles DELETE /api/votes/:id (unvote). An already-deleted vote
// reports a distinct VOTE_NOT_FOUND code so a double-click can be treated as
// already satisfied rather than as a failure.
func RetractVote(c *gin.Context) {
	idStr := c.Param("id")
	voteID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vote ID format"})
		return
	}

	if err := voteService.RetractVote(c.Request.Context(), uint(voteID)); err != nil {
		if errors.Is(err, service.ErrVoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Vote not found",
				"message": fmt.Sprintf("No vote found with ID: %s", idStr),
				"code":    "VOTE_NOT_FOUND",
			})
		} else {
			log.Printf("failed to delete vote %d: %v", voteID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vote"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListVotes handles GET /api/votes?userId=&pollId=. Used on page load to
// reconstruct which options the user already voted for.
func ListVotes(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	var pollID *uint
	if pollIDStr := c.Query("pollId"); pollIDStr != "" {
		parsed, err := strconv.ParseUint(pollIDStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid poll ID format"})
			return
		}
		id := uint(parsed)
		pollID = &id
	}

	votes, err := voteService.ListVotes(c.Request.Context(), userID, pollID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("failed to list votes for user %s: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch votes"})
		}
		return
	}

	c.JSON(http.StatusOK, votes)
}
