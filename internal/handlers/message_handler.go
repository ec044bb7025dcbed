package handlers

import (
	"net/http"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/middleware"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// RegisterMessageRoutes registers message routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/messages", h.GetMessages)
	g.POST("/messages", h.SendMessage)
	g.PATCH("/messages/read", h.MarkRead)
	g.POST("/messages/reactions", h.ToggleReaction)
}

// GetMessages returns a page of a chat's messages: ?chat_id=&before=&limit=
func (h *MessageHandler) GetMessages(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	chatID := c.QueryParam("chat_id")
	if chatID == "" {
		return apperrors.Validation("chat_id is required")
	}
	messages, err := h.messages.List(c.Request().Context(), userID, chatID, c.QueryParam("before"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, messages)
}

// SendMessage accepts JSON or a multipart form with an optional "file" attachment
func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	upload, file, err := formFile(c, "file")
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	message, err := h.messages.Send(c.Request().Context(), userID, services.SendMessageInput{
		ChatID:  req.ChatID,
		Content: req.Content,
		File:    upload,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, message)
}

func (h *MessageHandler) MarkRead(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.MarkMessagesReadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	n, err := h.messages.MarkRead(c.Request().Context(), userID, &req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"modified_count": n})
}

// ToggleReaction adds or removes the caller's emoji on a message
func (h *MessageHandler) ToggleReaction(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.ReactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	message, err := h.messages.ToggleReaction(c.Request().Context(), userID, &req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, message)
}
