package cache

import "errors"

var (
	// ErrRedisNotAvailable is returned when the Redis connection is down.
	ErrRedisNotAvailable = errors.New("redis not available")

	// ErrLockNotAcquired is returned when a distributed lock could not be taken.
	ErrLockNotAcquired = errors.New("distributed lock not acquired")
)
