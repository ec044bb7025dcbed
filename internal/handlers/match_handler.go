package handlers

import (
	"net/http"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/middleware"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// MatchHandler handles match-related HTTP requests
type MatchHandler struct {
	matches *services.MatchService
}

func NewMatchHandler(matches *services.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// RegisterMatchRoutes registers match routes
func (h *MatchHandler) RegisterMatchRoutes(g *echo.Group) {
	g.GET("/matches", h.GetMyMatches)
	g.POST("/matches", h.CreateMatch)
	g.GET("/matches/search", h.SearchMatches)
	g.GET("/matches/:id", h.GetMatch)
	g.PATCH("/matches/:id", h.UpdateMatch)
	g.POST("/matches/:id/join", h.JoinMatch)
}

func (h *MatchHandler) GetMyMatches(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	matches, err := h.matches.ListMine(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, matches)
}

func (h *MatchHandler) CreateMatch(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.CreateMatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	match, err := h.matches.Create(c.Request().Context(), userID, &req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, match)
}

// SearchMatches finds open matches of other players from the query string
func (h *MatchHandler) SearchMatches(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.MatchSearchRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return apperrors.Validation("Invalid search parameters")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	matches, err := h.matches.Search(c.Request().Context(), userID, &req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, matches)
}

func (h *MatchHandler) GetMatch(c echo.Context) error {
	match, err := h.matches.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, match)
}

// UpdateMatch changes the status, and optionally records the score
func (h *MatchHandler) UpdateMatch(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.UpdateMatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	match, err := h.matches.UpdateStatus(c.Request().Context(), userID, c.Param("id"), &req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, match)
}

func (h *MatchHandler) JoinMatch(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	match, err := h.matches.Join(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, match)
}
