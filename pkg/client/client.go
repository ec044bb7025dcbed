// Package client is a Go client for the futsal matcher API, plus cached chat and
// notification stores built on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/futsal-matcher/backend/internal/models"
)

// Client talks to /api/v1. The session cookie set by SignIn is kept in a cookie jar.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// New creates a client with an empty cookie jar.
func New(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/") + "/api/v1",
		httpClient: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: cfg.Transport,
		},
	}, nil
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Session is returned by SignIn.
type Session struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      models.UserCompact `json:"user"`
}

// NotificationList is a page of notifications plus the caller's unread total.
type NotificationList struct {
	Notifications []models.NotificationView `json:"notifications"`
	UnreadCount   int64                     `json:"unread_count"`
}

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.UserCompact, error) {
	var user models.UserCompact
	body := models.RegisterRequest{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignIn authenticates with email and password and stores the session cookie.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	body := models.SignInRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/signin", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignOut clears the session cookie.
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/signout", nil, nil)
}

// Chats lists the caller's chats, most recently active first.
func (c *Client) Chats(ctx context.Context) ([]models.ChatView, error) {
	var chats []models.ChatView
	if err := c.do(ctx, http.MethodGet, "/chats", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// CreateChat opens a direct chat with participants[0], or a group chat when name is set.
func (c *Client) CreateChat(ctx context.Context, participants []string, name string) (*models.ChatView, error) {
	req := models.CreateChatRequest{Participants: participants, IsGroupChat: name != "", Name: name}
	var chat models.ChatView
	if err := c.do(ctx, http.MethodPost, "/chats", req, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// Messages returns the newest page of a chat's messages and marks them read.
func (c *Client) Messages(ctx context.Context, chatID string) ([]models.MessageView, error) {
	var messages []models.MessageView
	if err := c.do(ctx, http.MethodGet, "/messages?chat_id="+url.QueryEscape(chatID), nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage posts a text message.
func (c *Client) SendMessage(ctx context.Context, chatID, content string) (*models.MessageView, error) {
	var message models.MessageView
	body := models.SendMessageRequest{ChatID: chatID, Content: content}
	if err := c.do(ctx, http.MethodPost, "/messages", body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// ToggleReaction adds the caller's emoji to a message, or removes it when already present.
func (c *Client) ToggleReaction(ctx context.Context, messageID, emoji string) (*models.Message, error) {
	var message models.Message
	body := models.ReactionRequest{MessageID: messageID, Emoji: emoji}
	if err := c.do(ctx, http.MethodPost, "/messages/reactions", body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// Notifications returns the newest notifications. limit <= 0 uses the server default.
func (c *Client) Notifications(ctx context.Context, unreadOnly bool, limit int) (*NotificationList, error) {
	q := url.Values{}
	if unreadOnly {
		q.Set("unread", "true")
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/notifications"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list NotificationList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// MarkNotificationsRead marks ids, or every notification when all is set, and
// returns how many changed.
func (c *Client) MarkNotificationsRead(ctx context.Context, ids []string, all bool) (int64, error) {
	var result struct {
		ModifiedCount int64 `json:"modified_count"`
	}
	body := models.MarkNotificationsReadRequest{NotificationIDs: ids, All: all}
	if err := c.do(ctx, http.MethodPatch, "/notifications", body, &result); err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode, Message: resp.Status}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return &APIError{Status: resp.StatusCode, Code: env.Error.Code, Message: env.Error.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
