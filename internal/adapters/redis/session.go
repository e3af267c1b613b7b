package redisad

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"company_reviews/internal/adapters/observability"
)

// NewClient opens a go-redis client; it does not dial until first use.
func NewClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

// SessionStore keeps the last viewed page of one browsing session. The key
// expires ttl after the last write, which bounds it to the session lifetime.
type SessionStore struct {
	c   *redis.Client
	key string
	ttl time.Duration
}

func NewSessionStore(c *redis.Client, sessionID string, ttl time.Duration) *SessionStore {
	return &SessionStore{c: c, key: fmt.Sprintf("reviews:session:%s:page", sessionID), ttl: ttl}
}

func (s *SessionStore) LoadPage(ctx context.Context) (int, bool, error) {
	v, err := s.c.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		observability.ObserveSession("redis", "miss")
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		// garbage in the slot is treated as absent
		observability.ObserveSession("redis", "miss")
		return 0, false, nil
	}
	observability.ObserveSession("redis", "hit")
	return n, true, nil
}

func (s *SessionStore) SavePage(ctx context.Context, page int) error {
	observability.ObserveSession("redis", "set")
	return s.c.Set(ctx, s.key, strconv.Itoa(page), s.ttl).Err()
}
