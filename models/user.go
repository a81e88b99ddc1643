package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an anonymous guest identity. Created on first visit with an empty
// name; the name is set once voting intent is established. Users are never
// deleted.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Name      string    `json:"name"`
}

// BeforeCreate mints a random UUID so guest ids are not guessable.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
