package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bnema/pdv/internal/boundaries/out"
	"github.com/bnema/pdv/internal/domain"
)

// RateLimit throttles requests per client IP under the given key prefix.
// A nil limiter disables throttling.
func RateLimit(limiter out.RateLimiter, prefix string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(c echo.Context) error {
			if !limiter.Allow(c.Request().Context(), prefix+":"+c.RealIP()) {
				c.Response().Header().Set("Retry-After", "60")
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}
