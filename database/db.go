package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"collab-poll-backend/migrations"
	"collab-poll-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database handle, opened once at process start and shared
// across requests. Tests replace it with an in-memory SQLite connection.
var DB *gorm.DB

// InitDB opens the MySQL connection and migrates the schema.
func InitDB() error {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	dbUser := getEnv("DB_USER", "polluser")
	dbPassword := getEnv("DB_PASSWORD", "pollpassword")
	dbHost := getEnv("DB_HOST", "mysql")
	dbPort := getEnv("DB_PORT", "3306")
	dbName := getEnv("DB_NAME", "polldb")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: newLogger,
		// Map driver duplicate-key errors to gorm.ErrDuplicatedKey so the vote
		// engine can absorb unique-index races instead of failing on them.
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	log.Println("database connected and migrated")
	return nil
}

// Migrate runs the schema migration for all models. Exposed so tests can run
// it against their own connection.
func Migrate(db *gorm.DB) error {
	// Deployments that predate the voter-added-options setting need the column
	// backfilled with its default before AutoMigrate touches the table.
	if err := migrations.AddVoterOptionsToPoll(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Poll{},
		&models.PollOption{},
		&models.User{},
		&models.Vote{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}
	return nil
}

// CloseDB closes the underlying connection pool.
func CloseDB() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("failed to get underlying sql.DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("failed to close database connection: %v", err)
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
