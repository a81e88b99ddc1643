package handlers

import (
	"errors"
	"log"
	"net/http"

	"collab-poll-backend/service"

	"github.com/gin-gonic/gin"
)

// guestCookieName carries the anonymous identity between visits.
const guestCookieName = "user_id"

// guestCookieMaxAge keeps the identity for a year; guests are never deleted.
const guestCookieMaxAge = 365 * 24 * 60 * 60

// ResolveGuest handles GET /api/auth/guest: returns the user id from the
// identity cookie when present, otherwise mints a new guest and sets the
// cookie. This is the only place identity enters the system; everything
// downstream receives it as an explicit parameter.
func ResolveGuest(c *gin.Context) {
	if existing, err := c.Cookie(guestCookieName); err == nil && existing != "" {
		c.JSON(http.StatusOK, gin.H{"userId": existing})
		return
	}

	user, err := userService.CreateGuest(c.Request.Context())
	if err != nil {
		log.Printf("failed to create guest user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.SetCookie(guestCookieName, user.ID, guestCookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"userId": user.ID})
}

// CreateUser handles POST /api/users: guest creation for clients that manage
// the cookie themselves.
func CreateUser(c *gin.Context) {
	user, err := userService.CreateGuest(c.Request.Context())
	if err != nil {
		log.Printf("failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID})
}

// GetUser handles GET /api/users/:id.
func GetUser(c *gin.Context) {
	user, err := userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("failed to fetch user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUserInput carries the new display name.
type UpdateUserInput struct {
	Name string `json:"name"`
}

// UpdateUser handles PUT /api/users/:id: sets the display name shown next to
// the user's votes.
func UpdateUser(c *gin.Context) {
	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := userService.SetUserName(c.Request.Context(), c.Param("id"), input.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingName):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			log.Printf("failed to update user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}
