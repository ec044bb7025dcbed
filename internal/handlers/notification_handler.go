package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/futsal-matcher/backend/internal/middleware"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.PATCH("/notifications", h.MarkRead)
}

// GetNotifications returns the newest notifications and the unread count: ?unread=true&limit=
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	unreadOnly, _ := strconv.ParseBool(c.QueryParam("unread"))

	list, err := h.notifications.List(c.Request().Context(), userID, unreadOnly, queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list)
}

// MarkRead marks the given notifications, or all of them, as read
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.MarkNotificationsReadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	n, err := h.notifications.MarkRead(c.Request().Context(), userID, &req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"modified_count": n})
}
