package middleware

import (
	"strings"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/labstack/echo/v4"
)

const (
	// SessionCookie carries the session token for browser clients.
	SessionCookie = "session_token"
	// UserIDKey is the echo context key holding the authenticated user id.
	UserIDKey = "userID"
)

// Authenticator resolves a session token to a user id.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// JWTAuthMiddleware requires a valid session token, taken from the Authorization
// header ("Bearer <token>") or from the session cookie, and stores the user id in
// the context.
func JWTAuthMiddleware(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := sessionToken(c)
			if err != nil {
				return err
			}
			userID, err := auth.Authenticate(token)
			if err != nil {
				return err
			}
			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

func sessionToken(c echo.Context) (string, error) {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", apperrors.Unauthorized("Invalid Authorization header format")
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", apperrors.Unauthorized("Authentication required")
}

// UserID returns the authenticated user id set by JWTAuthMiddleware.
func UserID(c echo.Context) (string, error) {
	userID, ok := c.Get(UserIDKey).(string)
	if !ok || userID == "" {
		return "", apperrors.Unauthorized("Authentication required")
	}
	return userID, nil
}
