package handlers

import (
	"net/http"

	"github.com/anonto42/futsal-matcher/backend/internal/middleware"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	chats *services.ChatService
}

func NewChatHandler(chats *services.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// RegisterChatRoutes registers chat routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.GET("/chats", h.GetChats)
	g.POST("/chats", h.CreateChat)
	g.GET("/chats/:id", h.GetChat)
	g.PATCH("/chats/:id", h.UpdateChat)
}

// GetChats lists the caller's chats, most recently active first
func (h *ChatHandler) GetChats(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	chats, err := h.chats.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, chats)
}

func (h *ChatHandler) GetChat(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	chat, err := h.chats.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, chat)
}

// CreateChat returns 201 for a new chat and 200 when an existing direct chat is reused
func (h *ChatHandler) CreateChat(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.CreateChatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	chat, created, err := h.chats.Create(c.Request().Context(), userID, &req)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return respond(c, status, chat)
}

func (h *ChatHandler) UpdateChat(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.UpdateChatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	chat, err := h.chats.Update(c.Request().Context(), userID, c.Param("id"), &req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, chat)
}
