package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/omsomani/account-system/internal/api/metrics"
	"github.com/omsomani/account-system/internal/ratelimit"
)

// RateLimit gates requests through the given policy, keyed by client IP.
// Over-limit requests answer 429 with the supplied message.
func RateLimit(limiter *ratelimit.Limiter, policy ratelimit.Policy, message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow(c.RealIP(), policy) {
				metrics.RateLimitedTotal.WithLabelValues(policy.Name).Inc()
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": message})
			}
			return next(c)
		}
	}
}
