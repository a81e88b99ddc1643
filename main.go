package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collab-poll-backend/cache"
	"collab-poll-backend/database"
	"collab-poll-backend/handlers"
	"collab-poll-backend/routes"
	"collab-poll-backend/service"
	"collab-poll-backend/store"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	if err := database.InitDB(); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := cache.InitRedis(); err != nil {
		log.Printf("warning: redis initialization failed: %v", err)
	}
	cache.InitDistLock()

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	pollStore := store.NewGormStore(database.DB)
	handlers.InitHandlers(
		service.NewPollService(pollStore, baseURL),
		service.NewOptionService(pollStore),
		service.NewVoteService(pollStore, cache.GetLockService()),
		service.NewUserService(pollStore),
	)

	router := routes.SetupRouter()
	srv := routes.StartServer(router)

	// Wait for an interrupt, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shut down: %v", err)
	}

	database.CloseDB()
	cache.CloseRedis()

	log.Println("server exited cleanly")
}
