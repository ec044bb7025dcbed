package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/futsal-matcher/backend/internal/auth"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/router"
	"github.com/anonto42/futsal-matcher/backend/pkg/logger"
	"github.com/anonto42/futsal-matcher/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir(), "http://files.test")
	require.NoError(t, err)

	e := echo.New()
	router.SetupRoutes(e, router.NewMemoryRepositories(), router.Options{
		Tokens: auth.NewTokenManager("client-test-secret", time.Hour),
		Store:  store,
		Log:    logger.Discard(),
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func signedIn(t *testing.T, baseURL, name, email string) (*Client, string) {
	t.Helper()
	ctx := context.Background()
	c, err := New(Config{BaseURL: baseURL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	_, err = c.Register(ctx, name, email, "secret123")
	require.NoError(t, err)
	session, err := c.SignIn(ctx, email, "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	return c, session.User.ID
}

func TestClientAgainstServer(t *testing.T) {
	srv := newAPIServer(t)
	ctx := context.Background()

	alice, _ := signedIn(t, srv.URL, "Alice", "alice@example.com")
	bob, bobID := signedIn(t, srv.URL, "Bob", "bob@example.com")

	chat, err := alice.CreateChat(ctx, []string{bobID}, "")
	require.NoError(t, err)
	require.NotNil(t, chat.OtherParticipant)
	assert.Equal(t, bobID, chat.OtherParticipant.ID)

	again, err := bob.CreateChat(ctx, []string{chat.CreatedBy}, "")
	require.NoError(t, err)
	assert.Equal(t, chat.ID, again.ID)

	_, err = alice.SendMessage(ctx, chat.ID.Hex(), "  ")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)

	require.NoError(t, alice.SignOut(ctx))
	_, err = alice.Chats(ctx)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
}

func TestChatStoreWithServer(t *testing.T) {
	srv := newAPIServer(t)
	ctx := context.Background()

	alice, aliceID := signedIn(t, srv.URL, "Alice", "alice@example.com")
	bob, bobID := signedIn(t, srv.URL, "Bob", "bob@example.com")
	carol, carolID := signedIn(t, srv.URL, "Carol", "carol@example.com")

	withBob, err := alice.CreateChat(ctx, []string{bobID}, "")
	require.NoError(t, err)
	_, err = carol.CreateChat(ctx, []string{aliceID}, "")
	require.NoError(t, err)

	store := NewChatStore(alice, aliceID)
	require.NoError(t, store.Refresh(ctx))
	chats := store.Chats()
	require.Len(t, chats, 2)
	assert.Contains(t, chats[0].Participants, carolID)

	chatID := withBob.ID.Hex()
	require.NoError(t, store.Load(ctx, chatID))
	sent, err := store.Send(ctx, chatID, "Friday 8pm?")
	require.NoError(t, err)

	chats = store.Chats()
	assert.Equal(t, withBob.ID, chats[0].ID)
	assert.Equal(t, "Friday 8pm?", chats[0].LastMessagePreview)
	require.Len(t, store.Messages(chatID), 1)

	bobStore := NewChatStore(bob, bobID)
	require.NoError(t, bobStore.Load(ctx, chatID))
	require.NoError(t, bobStore.ToggleReaction(ctx, chatID, sent.ID.Hex(), "👍"))
	msgs := bobStore.Messages(chatID)
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].Pending)
	assert.Equal(t, []string{bobID}, msgs[0].Reactions["👍"])
	assert.ElementsMatch(t, []string{aliceID, bobID}, msgs[0].ReadBy)

	require.NoError(t, bobStore.ToggleReaction(ctx, chatID, sent.ID.Hex(), "👍"))
	assert.Empty(t, bobStore.Messages(chatID)[0].Reactions)
}

func TestNotificationStoreWithServer(t *testing.T) {
	srv := newAPIServer(t)
	ctx := context.Background()

	alice, _ := signedIn(t, srv.URL, "Alice", "alice@example.com")
	bob, bobID := signedIn(t, srv.URL, "Bob", "bob@example.com")

	chat, err := alice.CreateChat(ctx, []string{bobID}, "")
	require.NoError(t, err)
	_, err = alice.SendMessage(ctx, chat.ID.Hex(), "See you at the pitch")
	require.NoError(t, err)

	store := NewNotificationStore(bob, 20)
	require.NoError(t, store.Refresh(ctx))
	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), store.UnreadCount())

	require.NoError(t, store.MarkRead(ctx, items[0].ID.Hex()))
	assert.Equal(t, int64(1), store.UnreadCount())
	assert.True(t, store.Items()[0].Read)
	assert.False(t, store.Items()[0].Pending)

	n, err := bob.MarkNotificationsRead(ctx, []string{items[0].ID.Hex()}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, store.MarkAllRead(ctx))
	assert.Equal(t, int64(0), store.UnreadCount())

	require.NoError(t, store.Refresh(ctx))
	assert.Equal(t, int64(0), store.UnreadCount())
	for _, item := range store.Items() {
		assert.True(t, item.Read)
	}
}

// failingAPI serves fixed data and fails every write.
type failingAPI struct {
	messages      []models.MessageView
	notifications []models.NotificationView
}

var errOffline = errors.New("offline")

func (f *failingAPI) Chats(context.Context) ([]models.ChatView, error) { return nil, nil }

func (f *failingAPI) Messages(context.Context, string) ([]models.MessageView, error) {
	return f.messages, nil
}

func (f *failingAPI) SendMessage(context.Context, string, string) (*models.MessageView, error) {
	return nil, errOffline
}

func (f *failingAPI) ToggleReaction(context.Context, string, string) (*models.Message, error) {
	return nil, errOffline
}

func (f *failingAPI) Notifications(context.Context, bool, int) (*NotificationList, error) {
	return &NotificationList{Notifications: f.notifications, UnreadCount: int64(len(f.notifications))}, nil
}

func (f *failingAPI) MarkNotificationsRead(context.Context, []string, bool) (int64, error) {
	return 0, errOffline
}

func TestChatStoreRollsBackFailedReaction(t *testing.T) {
	ctx := context.Background()
	msg := models.MessageView{Message: models.Message{
		ID:        primitive.NewObjectID(),
		Content:   "gg",
		Reactions: map[string][]string{"⚽": {"u2"}},
	}}
	api := &failingAPI{messages: []models.MessageView{msg}}
	store := NewChatStore(api, "u1")
	require.NoError(t, store.Load(ctx, "c1"))

	err := store.ToggleReaction(ctx, "c1", msg.ID.Hex(), "⚽")
	assert.ErrorIs(t, err, errOffline)

	got := store.Messages("c1")
	require.Len(t, got, 1)
	assert.False(t, got[0].Pending)
	assert.Equal(t, map[string][]string{"⚽": {"u2"}}, got[0].Reactions)

	_, err = store.Send(ctx, "c1", "hello")
	assert.ErrorIs(t, err, errOffline)
	assert.Len(t, store.Messages("c1"), 1)
}

func TestNotificationStoreRollsBackFailedMarkRead(t *testing.T) {
	ctx := context.Background()
	first := models.NotificationView{Notification: models.Notification{ID: primitive.NewObjectID(), Content: "one"}}
	second := models.NotificationView{Notification: models.Notification{ID: primitive.NewObjectID(), Content: "two"}}
	store := NewNotificationStore(&failingAPI{notifications: []models.NotificationView{first, second}}, 10)
	require.NoError(t, store.Refresh(ctx))

	assert.ErrorIs(t, store.MarkRead(ctx, first.ID.Hex()), errOffline)
	assert.ErrorIs(t, store.MarkAllRead(ctx), errOffline)

	assert.Equal(t, int64(2), store.UnreadCount())
	for _, item := range store.Items() {
		assert.False(t, item.Read)
		assert.False(t, item.Pending)
	}
}

func TestChatStoreMessagesReturnsCopies(t *testing.T) {
	ctx := context.Background()
	msg := models.MessageView{Message: models.Message{
		ID:        primitive.NewObjectID(),
		ReadBy:    make([]string, 1, 4),
		Reactions: map[string][]string{"⚽": {"u2"}},
	}}
	msg.ReadBy[0] = "u1"
	store := NewChatStore(&failingAPI{messages: []models.MessageView{msg}}, "u1")
	require.NoError(t, store.Load(ctx, "c1"))

	got := store.Messages("c1")
	got[0].ReadBy[0] = "intruder"
	_ = append(got[0].ReadBy, "u9")
	got[0].Reactions["⚽"][0] = "intruder"

	again := store.Messages("c1")
	assert.Equal(t, []string{"u1"}, again[0].ReadBy)
	assert.Equal(t, map[string][]string{"⚽": {"u2"}}, again[0].Reactions)
}

func TestToggled(t *testing.T) {
	added := toggled(nil, "🔥", "u1")
	assert.Equal(t, map[string][]string{"🔥": {"u1"}}, added)
	assert.Nil(t, toggled(added, "🔥", "u1"))

	both := toggled(map[string][]string{"🔥": {"u2"}}, "🔥", "u1")
	assert.Equal(t, []string{"u2", "u1"}, both["🔥"])
}
