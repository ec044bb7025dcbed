package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/futsal-matcher/backend/internal/middleware"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles registration, sign-in and sign-out.
type AuthHandler struct {
	auth         *services.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler. cookieSecure marks the session cookie Secure.
func NewAuthHandler(auth *services.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookieSecure: cookieSecure}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/signin", h.SignIn)
	g.POST("/signout", h.SignOut)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Register creates a local account with email and password
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.auth.Register(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, user.ToCompact())
}

// SignIn checks credentials, returns a token and sets the session cookie
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	session, err := h.auth.SignIn(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, session.Token, session.ExpiresAt)
	return respond(c, http.StatusOK, session)
}

// SignOut clears the session cookie. Tokens are stateless, so nothing else is revoked.
func (h *AuthHandler) SignOut(c echo.Context) error {
	h.setSessionCookie(c, "", time.Unix(0, 0))
	return respond(c, http.StatusOK, echo.Map{"signed_out": true})
}

// FirebaseLogin exchanges a Firebase ID token for a local session
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	session, err := h.auth.FirebaseLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, session.Token, session.ExpiresAt)
	return respond(c, http.StatusOK, session)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	c.SetCookie(cookie)
}
