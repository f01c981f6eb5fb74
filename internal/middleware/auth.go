package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/agrimart/agrimart-gateway/pkg/logger"
	"github.com/agrimart/agrimart-gateway/pkg/session"
)

// AuthMiddleware validates the bearer token and attaches the session
// identity to the request context, where every backend call expects it.
func AuthMiddleware(verifier *session.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			// Get the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			// Check if it's a Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			// Validate the token
			identity, err := verifier.Verify(parts[1])
			if err != nil {
				log.Error("Invalid session token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// Store user info in context for later use
			c.Set("user_id", identity.UserID)
			c.Set("email", identity.Email)
			c.Set("user_role", identity.Role)

			ctx := session.WithIdentity(c.Request().Context(), identity)
			c.SetRequest(c.Request().WithContext(ctx))

			log.Info("Request authenticated",
				zap.Uint("user_id", identity.UserID),
				zap.String("role", identity.Role))

			return next(c)
		}
	}
}
