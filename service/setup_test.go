package service

import (
	"fmt"
	"strings"
	"testing"

	"collab-poll-backend/database"
	"collab-poll-backend/models"
	"collab-poll-backend/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore opens a private in-memory database named after the test, so
// tests in this package cannot see each other's rows.
func newTestStore(t *testing.T) (*store.GormStore, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	return store.NewGormStore(db), db
}

func seedUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{Name: name}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedPoll(t *testing.T, db *gorm.DB, multiVote bool, optionTexts ...string) models.Poll {
	t.Helper()
	poll := models.Poll{
		Question:           "Seeded question?",
		AdminToken:         "seed-admin-token",
		AllowMultipleVotes: multiVote,
	}
	for i, text := range optionTexts {
		poll.Options = append(poll.Options, models.PollOption{Text: text, SortOrder: i})
	}
	if err := db.Create(&poll).Error; err != nil {
		t.Fatalf("failed to seed poll: %v", err)
	}
	return poll
}
