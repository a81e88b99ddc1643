package handlers

import (
	"net/http"
	"runtime"
	"time"

	"collab-poll-backend/database"

	"github.com/gin-gonic/gin"
)

// SystemInfo contains basic system metrics and information
type SystemInfo struct {
	Status       string    `json:"status"`
	Version      string    `json:"version"`
	Uptime       string    `json:"uptime"`
	StartTime    time.Time `json:"start_time"`
	CurrentTime  time.Time `json:"current_time"`
	GoVersion    string    `json:"go_version"`
	NumGoroutine int       `json:"num_goroutine"`
	DBStatus     string    `json:"db_status"`
}

var (
	startTime = time.Now()
	version   = "0.1.0" // injected via build flags in release builds
)

// HealthCheck provides a basic liveness endpoint.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// SystemStatus reports process and database health.
func SystemStatus(c *gin.Context) {
	dbStatus := "ok"
	sqlDB, err := database.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		dbStatus = "error"
	}

	c.JSON(http.StatusOK, SystemInfo{
		Status:       "ok",
		Version:      version,
		Uptime:       time.Since(startTime).String(),
		StartTime:    startTime,
		CurrentTime:  time.Now(),
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		DBStatus:     dbStatus,
	})
}
