package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"collab-poll-backend/service"

	"github.com/gin-gonic/gin"
)

// CreatePollInput defines the expected input structure for creating a poll
type CreatePollInput struct {
	Question                string   `json:"question" binding:"required"`
	UserID                  string   `json:"userId" binding:"required"`
	Options                 []string `json:"options" binding:"required"`
	AllowMultipleVotes      bool     `json:"allowMultipleVotes"`
	AllowVotersToAddOptions bool     `json:"allowVotersToAddOptions"`
}

// CreatePoll handles POST /api/polls: creates the poll with its initial
// options and returns the voter and admin share links.
func CreatePoll(c *gin.Context) {
	var input CreatePollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	poll, links, err := pollService.CreatePoll(c.Request.Context(), input.Question, input.UserID, input.Options, service.PollSettings{
		AllowMultipleVotes:      input.AllowMultipleVotes,
		AllowVotersToAddOptions: input.AllowVotersToAddOptions,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingQuestion), errors.Is(err, service.ErrInvalidOptions):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("failed to create poll: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create poll"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"poll":  poll,
		"links": links,
	})
}

// GetPoll handles GET /api/polls/:id: the denormalized snapshot with options
// in display order and voter names resolved.
func GetPoll(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	snapshot, err := pollService.GetPollSnapshot(c.Request.Context(), pollID)
	if err != nil {
		if errors.Is(err, service.ErrPollNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		} else {
			log.Printf("failed to fetch poll %d: %v", pollID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch poll"})
		}
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// ReplaceOptionsInput is the PATCH body: the desired option set plus the
// admin token.
type ReplaceOptionsInput struct {
	Options []service.OptionDescriptor `json:"options"`
	Token   string                     `json:"token"`
}

// ReplacePollOptions handles PATCH /api/polls/:id: the admin bulk edit that
// creates, updates and deletes options in a single transaction.
func ReplacePollOptions(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	var input ReplaceOptionsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := optionService.ReplaceOptionSet(c.Request.Context(), pollID, input.Options, input.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyOptionList):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing options"})
		case errors.Is(err, service.ErrPollNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		case errors.Is(err, service.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		case errors.Is(err, service.ErrOptionHasVotes):
			c.JSON(http.StatusConflict, gin.H{"error": "Option has votes and cannot be deleted or retexted"})
		default:
			log.Printf("failed to update poll %d options: %v", pollID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update poll"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Poll options updated successfully"})
}

// AddOptionInput is the single-option add body. The token is optional: voters
// may add options when the poll allows it.
type AddOptionInput struct {
	Text  string `json:"text"`
	Token string `json:"token"`
}

// AddPollOption handles POST /api/polls/:id/options.
func AddPollOption(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	var input AddOptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	option, err := optionService.AddOption(c.Request.Context(), pollID, input.Text, input.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingText):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Option text is required"})
		case errors.Is(err, service.ErrPollNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		case errors.Is(err, service.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Voter-added options are not enabled for this poll"})
		default:
			log.Printf("failed to add option to poll %d: %v", pollID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create poll option"})
		}
		return
	}

	c.JSON(http.StatusCreated, option)
}

// pollIDParam parses the :id route parameter, replying 400 itself on garbage.
func pollIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid poll ID format"})
		return 0, false
	}
	return uint(id), true
}
