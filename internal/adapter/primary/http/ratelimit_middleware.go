package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/payfuse/payment-gateway/pkg/security"
	"go.uber.org/zap"
)

// RateLimitMiddleware rejects requests over the fixed-window budget, keyed
// by client IP. A limiter backend failure fails open: losing rate limiting
// beats refusing all traffic.
func RateLimitMiddleware(limiter security.RateLimiter, maxRequests int, window time.Duration, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, err := limiter.Allow(c.Request().Context(), c.RealIP(), maxRequests, window)
			if err != nil {
				logger.Error("rate limiter unavailable", zap.Error(err))
				return next(c)
			}
			if !allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "rate limit exceeded",
				})
			}
			return next(c)
		}
	}
}
