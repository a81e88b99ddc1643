package models

import (
	"time"

	"gorm.io/gorm"
)

// Poll represents a collaborative poll. The admin token is generated once at
// creation and proves ownership; it is never serialized to clients (the admin
// link returned at creation carries it as a query parameter instead).
type Poll struct {
	ID                      uint           `gorm:"primarykey" json:"id"`
	CreatedAt               time.Time      `json:"createdAt"`
	UpdatedAt               time.Time      `json:"-"`
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"-"`
	Question                string         `gorm:"not null" json:"question"`
	AllowMultipleVotes      bool           `gorm:"default:false" json:"allowMultipleVotes"`
	AllowVotersToAddOptions bool           `gorm:"default:false" json:"allowVotersToAddOptions"`
	AdminToken              string         `gorm:"size:64;not null" json:"-"`
	CreatorID               string         `gorm:"size:36" json:"creatorId"`
	Options                 []PollOption   `gorm:"foreignKey:PollID" json:"options,omitempty"`
}

// PollOption represents an option within a poll. SortOrder defines the display
// sequence; "order" is a reserved word in SQL, hence the column name.
type PollOption struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	PollID    uint           `gorm:"not null;index" json:"pollId"`
	Text      string         `gorm:"not null" json:"text"`
	SortOrder int            `gorm:"column:sort_order;not null;default:0" json:"order"`
}
