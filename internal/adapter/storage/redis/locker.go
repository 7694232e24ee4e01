package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrLockNotAcquired is returned when the lock stayed taken for the whole wait.
var ErrLockNotAcquired = errors.New("redis lock not acquired")

const defaultLockRetry = 50 * time.Millisecond

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by another process is left alone.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker implements ports.KeyLocker with SET NX PX leases shared by every
// replica of the service.
type Locker struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	log    zerolog.Logger
}

// NewLocker creates a Locker. ttl bounds how long a crashed holder blocks the
// key; wait bounds how long Lock polls before giving up.
func NewLocker(client *goredis.Client, ttl, wait time.Duration, log zerolog.Logger) *Locker {
	return &Locker{
		client: client,
		prefix: "lock:reconcile:",
		ttl:    ttl,
		wait:   wait,
		retry:  defaultLockRetry,
		log:    log,
	}
}

// Lock acquires the lease for key, polling until wait elapses or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			return l.unlockFunc(ctx, redisKey, token), nil
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockNotAcquired, key)
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Locker) unlockFunc(ctx context.Context, redisKey, token string) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true

		// Release even if the caller's context was cancelled meanwhile.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.client, []string{redisKey}, token).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", redisKey).Msg("failed to release redis lock")
		}
	}
}
