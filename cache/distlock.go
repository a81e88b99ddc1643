package cache

import (
	"log"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
)

var rs *redsync.Redsync

// DistributedLockService wraps redsync mutexes. The vote engine uses it to
// serialize single-vote-mode retract-then-cast across processes.
type DistributedLockService struct {
	rs *redsync.Redsync
}

// InitDistLock builds the redsync instance on the shared Redis client.
func InitDistLock() {
	client, err := GetClient()
	if err != nil {
		log.Printf("distributed lock disabled: %v", err)
		return
	}

	pool := goredis.NewPool(client)
	rs = redsync.New(pool)
}

// GetLockService returns the lock service, or nil when Redis is unavailable.
// Callers treat a nil service as "proceed without the lock".
func GetLockService() *DistributedLockService {
	if rs == nil {
		return nil
	}
	return &DistributedLockService{rs: rs}
}

// WithLock runs action while holding the named lock.
func (s *DistributedLockService) WithLock(lockName string, expiry time.Duration, action func() error) error {
	mutex := s.rs.NewMutex(lockName,
		redsync.WithExpiry(expiry),
		redsync.WithTries(5),
		redsync.WithRetryDelay(50*time.Millisecond),
		redsync.WithDriftFactor(0.01),
	)

	if err := mutex.Lock(); err != nil {
		return ErrLockNotAcquired
	}
	defer func() {
		_, _ = mutex.Unlock()
	}()

	return action()
}
