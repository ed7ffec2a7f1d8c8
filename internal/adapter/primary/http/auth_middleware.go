package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/payfuse/payment-gateway/pkg/security"
	"go.uber.org/zap"
)

// AuthMiddleware guards endpoint management routes with a bearer JWT. The
// token's sub claim is stored on the context as user_id for handlers that
// scope queries by user.
func AuthMiddleware(secret string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "missing bearer token",
				})
			}

			claims, err := security.VerifyToken(token, secret)
			if err != nil {
				logger.Warn("token verification failed",
					zap.String("remote_addr", c.RealIP()),
					zap.Error(err))
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid token",
				})
			}

			if sub, _ := claims["sub"].(string); sub != "" {
				c.Set("user_id", sub)
			}
			return next(c)
		}
	}
}
