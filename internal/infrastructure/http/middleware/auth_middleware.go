package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/pkg/jwt"
)

const (
	// ActorIDKey is the echo context key holding the authenticated actor id
	ActorIDKey = "actor_id"
	// ClaimsKey is the echo context key holding the parsed *jwt.Claims
	ClaimsKey = "claims"
)

// EchoAuth returns an Echo middleware that validates the bearer token and
// sets "actor_id" (string) and "claims" (*jwt.Claims) into Echo context
func EchoAuth(manager *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, errorBody(apperrors.ErrUnauthenticated()))
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				appErr := apperrors.ErrInvalidToken()
				if errors.Is(err, jwt.ErrTokenExpired) {
					appErr.Code = apperrors.ErrorCode_AUTH_TOKEN_EXPIRED
					appErr.Message = "Authentication token expired"
				}
				return c.JSON(http.StatusUnauthorized, errorBody(appErr))
			}

			c.Set(ClaimsKey, claims)
			c.Set(ActorIDKey, claims.ActorID())

			return next(c)
		}
	}
}

// ActorID returns the actor id set by EchoAuth, or "" for unauthenticated routes
func ActorID(c echo.Context) string {
	actorID, _ := c.Get(ActorIDKey).(string)
	return actorID
}

// extractToken reads the Authorization header, falling back to the access_token cookie
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func errorBody(err apperrors.AppError) map[string]interface{} {
	return map[string]interface{}{
		"code":    err.Code.String(),
		"message": err.Message,
	}
}
