package client

import (
	"context"
	"sync"

	"github.com/anonto42/futsal-matcher/backend/internal/models"
)

// ChatAPI is the part of Client used by ChatStore.
type ChatAPI interface {
	Chats(ctx context.Context) ([]models.ChatView, error)
	Messages(ctx context.Context, chatID string) ([]models.MessageView, error)
	SendMessage(ctx context.Context, chatID, content string) (*models.MessageView, error)
	ToggleReaction(ctx context.Context, messageID, emoji string) (*models.Message, error)
}

// NotificationAPI is the part of Client used by NotificationStore.
type NotificationAPI interface {
	Notifications(ctx context.Context, unreadOnly bool, limit int) (*NotificationList, error)
	MarkNotificationsRead(ctx context.Context, ids []string, all bool) (int64, error)
}

// MessageEntry is a cached message. Pending is set while a speculative change
// has not been confirmed by the server.
type MessageEntry struct {
	models.MessageView
	Pending bool
}

// ChatStore caches the caller's chats and the messages of opened chats. The server
// copy is authoritative: Refresh and Load replace the cache and drop pending entries.
type ChatStore struct {
	api    ChatAPI
	userID string

	mu       sync.RWMutex
	chats    []models.ChatView
	messages map[string][]MessageEntry
}

func NewChatStore(api ChatAPI, userID string) *ChatStore {
	return &ChatStore{api: api, userID: userID, messages: make(map[string][]MessageEntry)}
}

// Refresh reloads the chat list.
func (s *ChatStore) Refresh(ctx context.Context) error {
	chats, err := s.api.Chats(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.chats = chats
	s.mu.Unlock()
	return nil
}

// Load reloads the messages of one chat.
func (s *ChatStore) Load(ctx context.Context, chatID string) error {
	messages, err := s.api.Messages(ctx, chatID)
	if err != nil {
		return err
	}
	entries := make([]MessageEntry, len(messages))
	for i := range messages {
		entries[i] = MessageEntry{MessageView: messages[i]}
	}
	s.mu.Lock()
	s.messages[chatID] = entries
	s.mu.Unlock()
	return nil
}

// Chats returns a copy of the cached chat list.
func (s *ChatStore) Chats() []models.ChatView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ChatView(nil), s.chats...)
}

// Messages returns a copy of the cached messages of chatID.
func (s *ChatStore) Messages(chatID string) []MessageEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]MessageEntry, len(s.messages[chatID]))
	for i, e := range s.messages[chatID] {
		out[i] = e
		out[i].Reactions = cloneReactions(e.Reactions)
		out[i].ReadBy = append([]string(nil), e.ReadBy...)
	}
	return out
}

// Send posts a message, appends it to the chat and moves the chat to the top.
func (s *ChatStore) Send(ctx context.Context, chatID, content string) (*models.MessageView, error) {
	message, err := s.api.SendMessage(ctx, chatID, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[chatID] = append(s.messages[chatID], MessageEntry{MessageView: *message})
	for i := range s.chats {
		if s.chats[i].ID != message.ChatID {
			continue
		}
		chat := s.chats[i]
		id := message.ID
		chat.LastMessageID = &id
		chat.LastMessagePreview = message.Content
		chat.LastMessageSenderID = message.SenderID
		chat.LastMessageAt = message.CreatedAt
		copy(s.chats[1:i+1], s.chats[:i])
		s.chats[0] = chat
		break
	}
	return message, nil
}

// ToggleReaction flips the caller's emoji on a cached message right away and marks
// it pending. The server result replaces the entry; on failure the entry is restored.
func (s *ChatStore) ToggleReaction(ctx context.Context, chatID, messageID, emoji string) error {
	s.mu.Lock()
	idx := s.indexOf(chatID, messageID)
	var previous MessageEntry
	if idx >= 0 {
		entry := &s.messages[chatID][idx]
		previous = *entry
		previous.Reactions = cloneReactions(entry.Reactions)
		entry.Reactions = toggled(entry.Reactions, emoji, s.userID)
		entry.Pending = true
	}
	s.mu.Unlock()

	confirmed, err := s.api.ToggleReaction(ctx, messageID, emoji)

	s.mu.Lock()
	defer s.mu.Unlock()
	// The chat may have been reloaded meanwhile; look the message up again.
	idx = s.indexOf(chatID, messageID)
	if idx < 0 {
		return err
	}
	entry := &s.messages[chatID][idx]
	if err != nil {
		if entry.Pending {
			*entry = previous
		}
		return err
	}
	entry.Reactions = confirmed.Reactions
	entry.ReadBy = confirmed.ReadBy
	entry.Pending = false
	return nil
}

func (s *ChatStore) indexOf(chatID, messageID string) int {
	for i, e := range s.messages[chatID] {
		if e.ID.Hex() == messageID {
			return i
		}
	}
	return -1
}

func toggled(reactions map[string][]string, emoji, userID string) map[string][]string {
	out := cloneReactions(reactions)
	if out == nil {
		out = make(map[string][]string)
	}
	users := out[emoji]
	for i, id := range users {
		if id == userID {
			users = append(users[:i:i], users[i+1:]...)
			if len(users) == 0 {
				delete(out, emoji)
			} else {
				out[emoji] = users
			}
			if len(out) == 0 {
				return nil
			}
			return out
		}
	}
	out[emoji] = append(users, userID)
	return out
}

func cloneReactions(reactions map[string][]string) map[string][]string {
	if reactions == nil {
		return nil
	}
	out := make(map[string][]string, len(reactions))
	for emoji, users := range reactions {
		out[emoji] = append([]string(nil), users...)
	}
	return out
}

// NotificationEntry is a cached notification. Pending is set while a speculative
// mark-read has not been confirmed.
type NotificationEntry struct {
	models.NotificationView
	Pending bool
}

// NotificationStore caches the newest notifications.
type NotificationStore struct {
	api   NotificationAPI
	limit int

	mu      sync.RWMutex
	entries []NotificationEntry
	unread  int64
}

// NewNotificationStore caches up to limit notifications per refresh.
func NewNotificationStore(api NotificationAPI, limit int) *NotificationStore {
	return &NotificationStore{api: api, limit: limit}
}

// Refresh replaces the cache with the server copy.
func (s *NotificationStore) Refresh(ctx context.Context) error {
	list, err := s.api.Notifications(ctx, false, s.limit)
	if err != nil {
		return err
	}
	entries := make([]NotificationEntry, len(list.Notifications))
	for i := range list.Notifications {
		entries[i] = NotificationEntry{NotificationView: list.Notifications[i]}
	}
	s.mu.Lock()
	s.entries = entries
	s.unread = list.UnreadCount
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the cached notifications, newest first.
func (s *NotificationStore) Items() []NotificationEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]NotificationEntry(nil), s.entries...)
}

// UnreadCount is the server's unread total adjusted by pending mark-reads.
func (s *NotificationStore) UnreadCount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// MarkRead marks one notification read locally, then on the server. A failed call
// restores the entry.
func (s *NotificationStore) MarkRead(ctx context.Context, id string) error {
	return s.markRead(ctx, []string{id}, false)
}

// MarkAllRead marks every cached notification read locally, then on the server.
func (s *NotificationStore) MarkAllRead(ctx context.Context) error {
	return s.markRead(ctx, nil, true)
}

func (s *NotificationStore) markRead(ctx context.Context, ids []string, all bool) error {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	s.mu.Lock()
	changed := make(map[string]NotificationEntry)
	for i := range s.entries {
		e := &s.entries[i]
		if e.Read || !(all || want[e.ID.Hex()]) {
			continue
		}
		changed[e.ID.Hex()] = *e
		e.Read = true
		e.Pending = true
		s.unread--
	}
	if s.unread < 0 {
		s.unread = 0
	}
	s.mu.Unlock()

	_, err := s.api.MarkNotificationsRead(ctx, ids, all)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		e := &s.entries[i]
		previous, ok := changed[e.ID.Hex()]
		if !ok || !e.Pending {
			continue
		}
		if err != nil {
			*e = previous
			s.unread++
			continue
		}
		e.Pending = false
	}
	if err == nil && all {
		s.unread = 0
	}
	return err
}
