package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gym-service/pkg/jwtutil"
	"gym-service/pkg/logger"
	"gym-service/prometheus"
)

// AuthMiddleware validates the JWT token from the Authorization header
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Error("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Error("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("user_name", claims.Name)
		c.Set("user_role", claims.Role)

		return next(c)
	}
}

// RequireRole gates a route group on the role claim. A mismatched role
// gets a 403 carrying the console the account belongs on, so clients can
// redirect instead of showing an error page.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actual, _ := c.Get("user_role").(string)
			if actual != role {
				logger.FromContext(c).Warn("Role mismatch",
					zap.String("required", role),
					zap.String("actual", actual))
				prometheus.RecordAuthError("role_mismatch")

				redirect := "/api/portal"
				if actual == "admin" {
					redirect = "/api/admin"
				}
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":    "access restricted to " + role + " accounts",
					"redirect": redirect,
				})
			}
			return next(c)
		}
	}
}
