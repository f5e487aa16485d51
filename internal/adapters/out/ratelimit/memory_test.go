package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/bnema/pdv/pkg/logger"
)

func TestMemoryStore_BurstThenLimited(t *testing.T) {
	store := NewMemoryStore(1, 3, logger.Discard())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, store.Allow(ctx, "login:10.0.0.1"), "attempt %d", i+1)
	}
	assert.False(t, store.Allow(ctx, "login:10.0.0.1"))
}

func TestMemoryStore_IndependentKeys(t *testing.T) {
	store := NewMemoryStore(1, 1, logger.Discard())
	ctx := context.Background()

	assert.True(t, store.Allow(ctx, "login:10.0.0.1"))
	assert.False(t, store.Allow(ctx, "login:10.0.0.1"))
	assert.True(t, store.Allow(ctx, "login:10.0.0.2"))
	assert.Equal(t, 2, store.Len())
}

func TestMemoryStore_SweepsIdleKeys(t *testing.T) {
	store := NewMemoryStore(1, 2, logger.Discard())
	ctx := context.Background()

	// Keys that never spent a token are idle and get swept.
	store.mu.Lock()
	for i := 0; i < maxKeys; i++ {
		store.limiters[fmt.Sprintf("idle:%d", i)] = rate.NewLimiter(store.limit, store.burst)
	}
	store.mu.Unlock()

	assert.True(t, store.Allow(ctx, "login:10.0.0.9"))
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore(1, 50, logger.Discard())
	ctx := context.Background()

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Allow(ctx, "login:shared") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), allowed.Load())
}
