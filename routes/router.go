package routes

import (
	"log"
	"net/http"
	"os"
	"time"

	"collab-poll-backend/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server wraps the HTTP server for graceful shutdown.
type Server struct {
	*http.Server
}

// SetupRouter configures the Gin router with CORS, rate limiting and all API
// routes.
func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // restrict to the frontend origin in production
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.InitRateLimiters()

	api := router.Group("/api")
	{
		api.Use(handlers.RateLimitMiddleware())

		api.GET("/health", handlers.HealthCheck)
		api.GET("/status", handlers.SystemStatus)

		polls := api.Group("/polls")
		{
			polls.POST("", handlers.CreatePoll)
			polls.GET("/:id", handlers.GetPoll)
			polls.PATCH("/:id", handlers.ReplacePollOptions)
			polls.POST("/:id/options", handlers.AddPollOption)
		}

		votes := api.Group("/votes")
		{
			votes.POST("", handlers.CastVote)
			votes.GET("", handlers.ListVotes)
			votes.DELETE("/:id", handlers.RetractVote)
		}

		users := api.Group("/users")
		{
			users.POST("", handlers.CreateUser)
			users.GET("/:id", handlers.GetUser)
			users.PUT("/:id", handlers.UpdateUser)
		}

		api.GET("/auth/guest", handlers.ResolveGuest)
	}

	return router
}

// StartServer starts the HTTP server on SERVER_PORT (default 8090).
func StartServer(router *gin.Engine) *Server {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8090"
	}

	srv := &Server{
		&http.Server{
			Addr:    ":" + port,
			Handler: router,
		},
	}

	go func() {
		log.Printf("server listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed to start: %v", err)
		}
	}()

	return srv
}
