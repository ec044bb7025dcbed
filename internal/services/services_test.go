package services

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/repositories"
	"github.com/anonto42/futsal-matcher/backend/pkg/logger"
	"github.com/anonto42/futsal-matcher/backend/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures emitted events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []NotificationEvent
}

func (r *recordingNotifier) Notify(_ context.Context, events ...NotificationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func (r *recordingNotifier) recipients() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.RecipientID
	}
	return out
}

func (r *recordingNotifier) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// memoryStore is a storage.Store keeping uploads in memory.
type memoryStore struct {
	objects map[string][]byte
}

func (s *memoryStore) Put(_ context.Context, name, contentType string, body io.Reader, size int64) (*storage.Object, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, err
	}
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	key := storage.ObjectKey("uploads", name)
	s.objects[key] = buf.Bytes()
	return &storage.Object{Key: key, URL: "https://files.test/" + key, Name: name, ContentType: contentType, Size: size}, nil
}

type fixture struct {
	repo     *repositories.Memory
	notifier *recordingNotifier
	store    *memoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{repo: repositories.NewMemory(), notifier: &recordingNotifier{}, store: &memoryStore{}}
	for _, u := range []models.User{
		{ID: "u1", Name: "Alice", Email: "alice@example.com"},
		{ID: "u2", Name: "Bob", Email: "bob@example.com"},
		{ID: "u3", Name: "Carol", Email: "carol@example.com"},
	} {
		u := u
		require.NoError(t, f.repo.CreateUser(context.Background(), &u))
	}
	return f
}

func (f *fixture) chats() *ChatService {
	return NewChatService(f.repo, f.repo, f.notifier)
}

func (f *fixture) messages() *MessageService {
	return NewMessageService(f.repo, f.repo, f.repo, f.store, f.notifier, logger.Discard())
}

func (f *fixture) matches() *MatchService {
	return NewMatchService(f.repo, f.repo, f.notifier)
}

func (f *fixture) feedback() *FeedbackService {
	return NewFeedbackService(f.repo, f.repo, f.repo, f.notifier)
}

func (f *fixture) directChat(t *testing.T, a, b string) *models.ChatView {
	t.Helper()
	chat, _, err := f.chats().Create(context.Background(), a, &models.CreateChatRequest{Participants: []string{b}})
	require.NoError(t, err)
	return chat
}

func assertKind(t *testing.T, want apperrors.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, apperrors.KindOf(err), "unexpected error: %v", err)
}
