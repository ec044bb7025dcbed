package handlers

import (
	"net/http"

	"github.com/anonto42/futsal-matcher/backend/internal/middleware"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedbackHandler handles post-match ratings
type FeedbackHandler struct {
	feedback *services.FeedbackService
}

func NewFeedbackHandler(feedback *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

func (h *FeedbackHandler) RegisterFeedbackRoutes(g *echo.Group) {
	g.GET("/feedback", h.GetFeedback)
	g.POST("/feedback", h.CreateFeedback)
}

// GetFeedback returns the feedback the caller received with the average rating
func (h *FeedbackHandler) GetFeedback(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	summary, err := h.feedback.ListReceived(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, summary)
}

func (h *FeedbackHandler) CreateFeedback(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.CreateFeedbackRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	feedback, err := h.feedback.Create(c.Request().Context(), userID, &req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, feedback)
}
