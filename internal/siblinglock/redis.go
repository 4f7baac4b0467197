package siblinglock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL   = 5 * time.Second
	DefaultRetry = 25 * time.Millisecond
)

// releaseScript deletes the lock only if it still holds our token, so an
// expired holder cannot free a lock someone else has since taken.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every process pointed at the same server and
// namespace.
type Redis struct {
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
	retry     time.Duration
}

var _ Locker = (*Redis)(nil)

// RedisOption configures a Redis locker.
type RedisOption func(*Redis)

// WithTTL bounds how long a crashed holder can block a scope.
func WithTTL(d time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = d }
}

// WithRetry sets the polling interval while the lock is held elsewhere.
func WithRetry(d time.Duration) RedisOption {
	return func(r *Redis) { r.retry = d }
}

// NewRedis creates a locker whose keys live under kanban:<namespace>:lock:.
func NewRedis(opts *redis.Options, namespace string, options ...RedisOption) (*Redis, error) {
	if namespace == "" {
		return nil, fmt.Errorf("lock namespace cannot be empty")
	}
	r := &Redis{
		rdb:       redis.NewClient(opts),
		namespace: namespace,
		ttl:       DefaultTTL,
		retry:     DefaultRetry,
	}
	for _, o := range options {
		o(r)
	}
	if r.ttl <= 0 || r.retry <= 0 {
		return nil, fmt.Errorf("lock ttl and retry must be positive")
	}
	return r, nil
}

// Key returns the Redis key guarding scope.
func (r *Redis) Key(scope string) string {
	return fmt.Sprintf("kanban:%s:lock:%s", r.namespace, scope)
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func (r *Redis) Lock(ctx context.Context, scope string) (func(), error) {
	key := r.Key(scope)
	token := uuid.NewString()

	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()
	for {
		ok, err := r.rdb.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Join(ErrLockTimeout, ctx.Err())
			}
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrLockTimeout, ctx.Err())
		case <-ticker.C:
		}
	}

	return func() {
		// Release must run even if the caller's context is already done.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.ttl)
		defer cancel()
		releaseScript.Run(ctx, r.rdb, []string{key}, token)
	}, nil
}
