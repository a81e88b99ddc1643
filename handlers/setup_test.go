package handlers

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"collab-poll-backend/database"
	"collab-poll-backend/models"
	"collab-poll-backend/service"
	"collab-poll-backend/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestEnvironment builds the real router against a shared in-memory
// SQLite database. TranslateError is on so the duplicate-vote backstop works
// the same way it does against MySQL.
func SetupTestEnvironment(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	database.DB = db
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	pollStore := store.NewGormStore(db)
	InitHandlers(
		service.NewPollService(pollStore, "http://localhost:3000"),
		service.NewOptionService(pollStore),
		service.NewVoteService(pollStore, nil), // no Redis in tests; the store transaction carries single-vote mode
		service.NewUserService(pollStore),
	)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	return newTestRouter(), db
}

// newTestRouter registers the same middleware and routes as the production
// router. Duplicated here rather than imported: the routes package depends on
// this one, so the tests cannot reach back into it.
func newTestRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	InitRateLimiters()

	api := router.Group("/api")
	{
		api.Use(RateLimitMiddleware())

		api.GET("/health", HealthCheck)
		api.GET("/status", SystemStatus)

		polls := api.Group("/polls")
		{
			polls.POST("", CreatePoll)
			polls.GET("/:id", GetPoll)
			polls.PATCH("/:id", ReplacePollOptions)
			polls.POST("/:id/options", AddPollOption)
		}

		votes := api.Group("/votes")
		{
			votes.POST("", CastVote)
			votes.GET("", ListVotes)
			votes.DELETE("/:id", RetractVote)
		}

		users := api.Group("/users")
		{
			users.POST("", CreateUser)
			users.GET("/:id", GetUser)
			users.PUT("/:id", UpdateUser)
		}

		api.GET("/auth/guest", ResolveGuest)
	}

	return router
}

// ClearTables wipes all rows between tests. Order matters because of the
// foreign key relations.
func ClearTables(db *gorm.DB) {
	db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.Vote{})
	db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.PollOption{})
	db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.Poll{})
	db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.User{})
}

// createTestUser seeds a guest user, optionally with a display name.
func createTestUser(db *gorm.DB, name string) models.User {
	user := models.User{Name: name}
	db.Create(&user)
	return user
}

// createTestPoll seeds a poll with options in the given order positions.
func createTestPoll(db *gorm.DB, question, adminToken string, multiVote, voterOptions bool, optionTexts ...string) models.Poll {
	poll := models.Poll{
		Question:                question,
		AdminToken:              adminToken,
		AllowMultipleVotes:      multiVote,
		AllowVotersToAddOptions: voterOptions,
	}
	for i, text := range optionTexts {
		poll.Options = append(poll.Options, models.PollOption{Text: text, SortOrder: i})
	}
	db.Create(&poll)
	return poll
}

// itoa renders a database id for use in a URL path.
func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// doJSON performs a JSON request against the router.
func doJSON(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}
