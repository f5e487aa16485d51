// Package ratelimit provides an in-memory token bucket limiter.
package ratelimit

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/bnema/pdv/internal/boundaries/out"
)

var _ out.RateLimiter = (*MemoryStore)(nil)

// maxKeys triggers a sweep of idle buckets once exceeded.
const maxKeys = 10000

// MemoryStore keeps one token bucket per key.
type MemoryStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	log      *log.Logger
}

// NewMemoryStore creates a limiter refilling perMinute tokens a minute up to burst.
func NewMemoryStore(perMinute float64, burst int, logger *log.Logger) *MemoryStore {
	return &MemoryStore{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		log:      logger.With("adapter", "ratelimit"),
	}
}

// Allow consumes a token for key.
func (s *MemoryStore) Allow(_ context.Context, key string) bool {
	allowed := s.limiter(key).Allow()
	if !allowed {
		s.log.Warn("Rate limit exceeded", "key", key)
	}
	return allowed
}

func (s *MemoryStore) limiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.limiters[key]; ok {
		return l
	}

	if len(s.limiters) >= maxKeys {
		s.sweep()
	}

	l := rate.NewLimiter(s.limit, s.burst)
	s.limiters[key] = l
	return l
}

// sweep drops buckets that have refilled completely. Callers hold mu.
func (s *MemoryStore) sweep() {
	before := len(s.limiters)
	for key, l := range s.limiters {
		if l.Tokens() >= float64(s.burst) {
			delete(s.limiters, key)
		}
	}
	s.log.Debug("Swept idle rate limiters", "removed", before-len(s.limiters))
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}
