package handlers

import (
	"net/http"

	"github.com/anonto42/futsal-matcher/backend/internal/middleware"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users and player profiles
type UserHandler struct {
	profiles *services.ProfileService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(profiles *services.ProfileService) *UserHandler {
	return &UserHandler{profiles: profiles}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)      // Get own profile
	g.PUT("/profile", h.UpdateUser)      // Update own account fields
	g.PATCH("/profile", h.PatchProfile)  // Create or update own profile document
	g.GET("/profiles", h.SearchProfiles) // Other players' profiles
	g.GET("/users", h.GetUsers)
}

// GetProfile returns the caller's profile, or null when none was saved yet
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profile)
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.profiles.UpdateUser(c.Request().Context(), userID, &req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

func (h *UserHandler) PatchProfile(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var patch models.ProfilePatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}
	profile, err := h.profiles.PatchProfile(c.Request().Context(), userID, &patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profile)
}

// SearchProfiles filters other players by ?position=&skill_level= ("any" disables a filter)
func (h *UserHandler) SearchProfiles(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	profiles, err := h.profiles.SearchProfiles(c.Request().Context(), userID, c.QueryParam("position"), c.QueryParam("skill_level"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profiles)
}

func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.profiles.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users)
}
