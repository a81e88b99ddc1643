package cache

import (
	"context"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	initOnce    sync.Once
	initialized bool
)

// InitRedis connects the shared Redis client. Redis is optional here: it backs
// the rate limiter and the vote lock, not any authoritative state, so a failed
// connection degrades the process instead of stopping it.
func InitRedis() error {
	initOnce.Do(func() {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}

		db := 0
		if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
			if parsed, err := strconv.Atoi(dbStr); err == nil {
				db = parsed
			}
		}

		client := redis.NewClient(&redis.Options{
			Addr:        addr,
			Password:    os.Getenv("REDIS_PASSWORD"),
			DB:          db,
			DialTimeout: 3 * time.Second,
			ReadTimeout: 3 * time.Second,
			PoolSize:    10,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if _, err := client.Ping(ctx).Result(); err != nil {
			log.Printf("redis unavailable at %s: %v (continuing without it)", addr, err)
			return
		}

		redisClient = client
		initialized = true
	})

	return nil
}

// GetClient returns the shared Redis client, or ErrRedisNotAvailable when the
// connection never came up.
func GetClient() (*redis.Client, error) {
	if !initialized || redisClient == nil {
		return nil, ErrRedisNotAvailable
	}
	return redisClient, nil
}

// CloseRedis closes the shared client.
func CloseRedis() {
	if initialized && redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("error closing redis connection: %v", err)
		}
	}
}
