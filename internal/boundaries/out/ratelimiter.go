package out

import "context"

// RateLimiter throttles requests per key, e.g. "login:<ip>".
type RateLimiter interface {
	// Allow reports whether one more request for key is allowed now.
	Allow(ctx context.Context, key string) bool
}
