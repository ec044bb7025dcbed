package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-memory implementation of every repository interface. It is safe
// for concurrent use and backs tests and STORAGE_DRIVER=memory.
type Memory struct {
	mu            sync.RWMutex
	users         map[string]models.User
	feedback      []models.Feedback
	chats         map[primitive.ObjectID]models.Chat
	directChats   map[string]primitive.ObjectID
	messages      map[primitive.ObjectID]models.Message
	notifications map[primitive.ObjectID]models.Notification
	matches       map[primitive.ObjectID]models.Match
	profiles      map[string]models.Profile
	venues        map[primitive.ObjectID]models.Venue
}

var (
	_ UserRepository         = (*Memory)(nil)
	_ FeedbackRepository     = (*Memory)(nil)
	_ ChatRepository         = (*Memory)(nil)
	_ MessageRepository      = (*Memory)(nil)
	_ NotificationRepository = (*Memory)(nil)
	_ MatchRepository        = (*Memory)(nil)
	_ ProfileRepository      = (*Memory)(nil)
	_ VenueRepository        = (*Memory)(nil)
)

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		users:         make(map[string]models.User),
		chats:         make(map[primitive.ObjectID]models.Chat),
		directChats:   make(map[string]primitive.ObjectID),
		messages:      make(map[primitive.ObjectID]models.Message),
		notifications: make(map[primitive.ObjectID]models.Notification),
		matches:       make(map[primitive.ObjectID]models.Match),
		profiles:      make(map[string]models.Profile),
		venues:        make(map[primitive.ObjectID]models.Venue),
	}
}

// Users -------------------------------------------------------------------------

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, exists := m.users[user.ID]; exists {
		return ErrDuplicate
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
		if user.FirebaseUID != nil && u.FirebaseUID != nil && *u.FirebaseUID == *user.FirebaseUID {
			return ErrDuplicate
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = cloneUser(*user)
	return nil
}

func (m *Memory) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u = cloneUser(u)
	return &u, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *Memory) GetUserByFirebaseUID(_ context.Context, firebaseUID string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.FirebaseUID != nil && *u.FirebaseUID == firebaseUID })
}

func (m *Memory) findUser(match func(models.User) bool) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) GetUsersByIDs(_ context.Context, ids []string) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := []models.User{}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok && !seen[id] {
			seen[id] = true
			users = append(users, cloneUser(u))
		}
	}
	return users, nil
}

func (m *Memory) GetUsers(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (m *Memory) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	original, ok := m.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	for id, u := range m.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	user.CreatedAt = original.CreatedAt
	user.UpdatedAt = time.Now()
	m.users[user.ID] = cloneUser(*user)
	return nil
}

// Feedback ----------------------------------------------------------------------

func (m *Memory) CreateFeedback(_ context.Context, feedback *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range m.feedback {
		if f.MatchID == feedback.MatchID && f.SenderID == feedback.SenderID && f.RecipientID == feedback.RecipientID {
			return ErrDuplicate
		}
	}
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	feedback.CreatedAt = time.Now()
	m.feedback = append(m.feedback, *feedback)
	return nil
}

func (m *Memory) FeedbackExists(_ context.Context, matchID, senderID, recipientID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, f := range m.feedback {
		if f.MatchID == matchID && f.SenderID == senderID && f.RecipientID == recipientID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) GetFeedbackByRecipient(_ context.Context, recipientID string) ([]models.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Feedback{}
	for i := len(m.feedback) - 1; i >= 0; i-- {
		if m.feedback[i].RecipientID == recipientID {
			out = append(out, m.feedback[i])
		}
	}
	return out, nil
}

// Chats -------------------------------------------------------------------------

func (m *Memory) UpsertDirectChat(_ context.Context, chat *models.Chat) (*models.Chat, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.directChats[chat.DirectKey]; ok {
		existing := cloneChat(m.chats[id])
		return &existing, false, nil
	}

	now := time.Now()
	created := cloneChat(*chat)
	created.ID = primitive.NewObjectID()
	created.IsGroupChat = false
	created.CreatedAt = now
	created.UpdatedAt = now
	created.LastMessageAt = now
	m.chats[created.ID] = created
	m.directChats[created.DirectKey] = created.ID

	out := cloneChat(created)
	return &out, true, nil
}

func (m *Memory) CreateChat(_ context.Context, chat *models.Chat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if chat.DirectKey != "" {
		if _, ok := m.directChats[chat.DirectKey]; ok {
			return ErrDuplicate
		}
	}
	now := time.Now()
	chat.ID = primitive.NewObjectID()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	chat.LastMessageAt = now
	m.chats[chat.ID] = cloneChat(*chat)
	if chat.DirectKey != "" {
		m.directChats[chat.DirectKey] = chat.ID
	}
	return nil
}

func (m *Memory) GetChatByID(_ context.Context, id string) (*models.Chat, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	chat, ok := m.chats[objID]
	if !ok {
		return nil, ErrNotFound
	}
	chat = cloneChat(chat)
	return &chat, nil
}

func (m *Memory) GetChatsByParticipant(_ context.Context, userID string) ([]models.Chat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chats := []models.Chat{}
	for _, c := range m.chats {
		if c.HasParticipant(userID) {
			chats = append(chats, cloneChat(c))
		}
	}
	sort.Slice(chats, func(i, j int) bool {
		if chats[i].LastMessageAt.Equal(chats[j].LastMessageAt) {
			return chats[i].ID.Hex() > chats[j].ID.Hex()
		}
		return chats[i].LastMessageAt.After(chats[j].LastMessageAt)
	})
	return chats, nil
}

func (m *Memory) SetChatLastMessage(_ context.Context, message *models.Message, preview string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	chat, ok := m.chats[message.ChatID]
	if !ok {
		return ErrNotFound
	}
	id := message.ID
	chat.LastMessageID = &id
	chat.LastMessagePreview = preview
	chat.LastMessageSenderID = message.SenderID
	chat.LastMessageAt = message.CreatedAt
	chat.UpdatedAt = time.Now()
	m.chats[chat.ID] = chat
	return nil
}

func (m *Memory) AddChatParticipants(_ context.Context, chatID primitive.ObjectID, userIDs []string) (*models.Chat, error) {
	return m.updateChat(chatID, func(c *models.Chat) {
		for _, id := range userIDs {
			if !c.HasParticipant(id) {
				c.Participants = append(c.Participants, id)
			}
		}
	})
}

func (m *Memory) RemoveChatParticipants(_ context.Context, chatID primitive.ObjectID, userIDs []string) (*models.Chat, error) {
	remove := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		remove[id] = true
	}
	return m.updateChat(chatID, func(c *models.Chat) {
		kept := c.Participants[:0]
		for _, p := range c.Participants {
			if !remove[p] {
				kept = append(kept, p)
			}
		}
		c.Participants = kept
	})
}

func (m *Memory) RenameChat(_ context.Context, chatID primitive.ObjectID, name string) (*models.Chat, error) {
	return m.updateChat(chatID, func(c *models.Chat) { c.Name = name })
}

func (m *Memory) updateChat(chatID primitive.ObjectID, mutate func(*models.Chat)) (*models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	chat, ok := m.chats[chatID]
	if !ok {
		return nil, ErrNotFound
	}
	chat = cloneChat(chat)
	mutate(&chat)
	chat.UpdatedAt = time.Now()
	m.chats[chatID] = chat

	out := cloneChat(chat)
	return &out, nil
}

// Messages ----------------------------------------------------------------------

func (m *Memory) CreateMessage(_ context.Context, message *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	m.messages[message.ID] = cloneMessage(*message)
	return nil
}

func (m *Memory) GetMessageByID(_ context.Context, id string) (*models.Message, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	msg, ok := m.messages[objID]
	if !ok {
		return nil, ErrNotFound
	}
	msg = cloneMessage(msg)
	return &msg, nil
}

func (m *Memory) GetMessagesByChatID(_ context.Context, chatID primitive.ObjectID, before string, limit int64) ([]models.Message, error) {
	var beforeID primitive.ObjectID
	if before != "" {
		id, err := objectID(before)
		if err != nil {
			return nil, err
		}
		beforeID = id
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := []models.Message{}
	for _, msg := range m.messages {
		if msg.ChatID != chatID {
			continue
		}
		if before != "" && msg.ID.Hex() >= beforeID.Hex() {
			continue
		}
		messages = append(messages, cloneMessage(msg))
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID.Hex() > messages[j].ID.Hex() })
	if limit > 0 && int64(len(messages)) > limit {
		messages = messages[:limit]
	}
	reverseMessages(messages)
	return messages, nil
}

func (m *Memory) MarkMessagesRead(_ context.Context, chatID primitive.ObjectID, messageIDs []string, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var modified int64
	for _, id := range objectIDs(messageIDs) {
		msg, ok := m.messages[id]
		if !ok || msg.ChatID != chatID || containsString(msg.ReadBy, userID) {
			continue
		}
		msg = cloneMessage(msg)
		msg.ReadBy = append(msg.ReadBy, userID)
		m.messages[id] = msg
		modified++
	}
	return modified, nil
}

func (m *Memory) AddReaction(_ context.Context, messageID primitive.ObjectID, emoji, userID string) (*models.Message, error) {
	return m.updateMessage(messageID, func(msg *models.Message) {
		if msg.Reactions == nil {
			msg.Reactions = make(map[string][]string)
		}
		if !containsString(msg.Reactions[emoji], userID) {
			msg.Reactions[emoji] = append(msg.Reactions[emoji], userID)
		}
	})
}

func (m *Memory) RemoveReaction(_ context.Context, messageID primitive.ObjectID, emoji, userID string) (*models.Message, error) {
	return m.updateMessage(messageID, func(msg *models.Message) {
		users := msg.Reactions[emoji]
		kept := make([]string, 0, len(users))
		for _, u := range users {
			if u != userID {
				kept = append(kept, u)
			}
		}
		if len(kept) == 0 {
			delete(msg.Reactions, emoji)
		} else {
			msg.Reactions[emoji] = kept
		}
		if len(msg.Reactions) == 0 {
			msg.Reactions = nil
		}
	})
}

func (m *Memory) updateMessage(id primitive.ObjectID, mutate func(*models.Message)) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	msg = cloneMessage(msg)
	mutate(&msg)
	m.messages[id] = msg

	out := cloneMessage(msg)
	return &out, nil
}

// Notifications -----------------------------------------------------------------

func (m *Memory) CreateNotifications(_ context.Context, notifications []*models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for _, n := range notifications {
		n.ID = primitive.NewObjectID()
		n.CreatedAt = now
		m.notifications[n.ID] = *n
	}
	return nil
}

func (m *Memory) GetNotificationsByRecipient(_ context.Context, recipientID string, unreadOnly bool, limit int64) ([]models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Notification{}
	for _, n := range m.notifications {
		if n.RecipientID != recipientID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) CountUnreadNotifications(_ context.Context, recipientID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, n := range m.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *Memory) MarkNotificationsRead(_ context.Context, recipientID string, ids []primitive.ObjectID) (int64, error) {
	wanted := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return m.markNotificationsRead(recipientID, func(id primitive.ObjectID) bool { return wanted[id] })
}

func (m *Memory) MarkAllNotificationsRead(_ context.Context, recipientID string) (int64, error) {
	return m.markNotificationsRead(recipientID, func(primitive.ObjectID) bool { return true })
}

func (m *Memory) markNotificationsRead(recipientID string, selected func(primitive.ObjectID) bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var modified int64
	for id, n := range m.notifications {
		if n.RecipientID != recipientID || n.Read || !selected(id) {
			continue
		}
		n.Read = true
		readAt := now
		n.ReadAt = &readAt
		m.notifications[id] = n
		modified++
	}
	return modified, nil
}

// Matches -----------------------------------------------------------------------

func (m *Memory) CreateMatch(_ context.Context, match *models.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	match.ID = primitive.NewObjectID()
	match.CreatedAt = now
	match.UpdatedAt = now
	m.matches[match.ID] = cloneMatch(*match)
	return nil
}

func (m *Memory) GetMatchByID(_ context.Context, id string) (*models.Match, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	match, ok := m.matches[objID]
	if !ok {
		return nil, ErrNotFound
	}
	match = cloneMatch(match)
	return &match, nil
}

func (m *Memory) GetMatchesByUser(_ context.Context, userID string) ([]models.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Match{}
	for _, match := range m.matches {
		if match.CreatedBy == userID || match.HasPlayer(userID) {
			out = append(out, cloneMatch(match))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() > out[j].ID.Hex() })
	return out, nil
}

func (m *Memory) SearchMatches(_ context.Context, f models.MatchFilter) ([]models.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Match{}
	for _, match := range m.matches {
		if matchesFilter(match, f) {
			out = append(out, cloneMatch(match))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	if f.Limit > 0 && int64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func matchesFilter(match models.Match, f models.MatchFilter) bool {
	switch {
	case f.Type != "" && match.Type != f.Type:
		return false
	case f.Status != "" && match.Status != f.Status:
		return false
	case f.ExcludeUserID != "" && match.CreatedBy == f.ExcludeUserID:
		return false
	case f.Location != "" && !strings.Contains(strings.ToLower(match.Location), strings.ToLower(f.Location)):
		return false
	case f.MaxDistance > 0 && match.Distance > f.MaxDistance:
		return false
	case f.From != nil && f.To != nil && (match.DateTime.Before(*f.From) || !match.DateTime.Before(*f.To)):
		return false
	case f.TeamSize > 0 && match.TeamSize != f.TeamSize:
		return false
	case f.IsSkillBased != nil && match.IsSkillBased != *f.IsSkillBased:
		return false
	case f.Position != "" && !containsString(match.PositionsNeeded, f.Position):
		return false
	case f.SkillLevel != "" && match.SkillLevel != f.SkillLevel:
		return false
	}
	return true
}

func (m *Memory) UpdateMatchStatus(_ context.Context, id primitive.ObjectID, change MatchStatusChange) (*models.Match, error) {
	return m.updateMatch(id, func(match *models.Match) bool {
		if match.Status != change.From {
			return false
		}
		match.Status = change.To
		if change.Score != nil {
			score := *change.Score
			match.Score = &score
		}
		if change.ReleaseOpponent != "" {
			match.OpponentID = ""
			match.Players = removeString(match.Players, change.ReleaseOpponent)
		}
		return true
	})
}

func (m *Memory) AddMatchOpponent(_ context.Context, id primitive.ObjectID, userID string) (*models.Match, error) {
	return m.updateMatch(id, func(match *models.Match) bool {
		if match.Type != models.MatchTypeOpponents || match.Status != models.MatchOpen ||
			match.CreatedBy == userID || match.OpponentID != "" {
			return false
		}
		match.OpponentID = userID
		match.Status = models.MatchMatched
		if !containsString(match.Players, userID) {
			match.Players = append(match.Players, userID)
		}
		return true
	})
}

func (m *Memory) AddMatchTeammate(_ context.Context, id primitive.ObjectID, userID string) (*models.Match, error) {
	return m.updateMatch(id, func(match *models.Match) bool {
		if match.Type != models.MatchTypeTeammates || match.Status != models.MatchOpen ||
			containsString(match.Players, userID) || len(match.Players) >= match.TeamSize {
			return false
		}
		match.Players = append(match.Players, userID)
		if len(match.Players) >= match.TeamSize {
			match.Status = models.MatchMatched
		}
		return true
	})
}

// updateMatch applies mutate atomically; mutate returns false when its precondition fails.
func (m *Memory) updateMatch(id primitive.ObjectID, mutate func(*models.Match) bool) (*models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	match, ok := m.matches[id]
	if !ok {
		return nil, ErrStale
	}
	match = cloneMatch(match)
	if !mutate(&match) {
		return nil, ErrStale
	}
	match.UpdatedAt = time.Now()
	m.matches[id] = match

	out := cloneMatch(match)
	return &out, nil
}

// Profiles ----------------------------------------------------------------------

func (m *Memory) GetProfileByUserID(_ context.Context, userID string) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	p.Availability = cloneStrings(p.Availability)
	return &p, nil
}

func (m *Memory) UpsertProfile(_ context.Context, userID string, patch *models.ProfilePatch) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	p, ok := m.profiles[userID]
	if !ok {
		p = models.Profile{ID: primitive.NewObjectID(), UserID: userID, Notifications: true, CreatedAt: now}
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.Position != nil {
		p.Position = *patch.Position
	}
	if patch.SkillLevel != nil {
		p.SkillLevel = *patch.SkillLevel
	}
	if patch.Availability != nil {
		p.Availability = cloneStrings(patch.Availability)
	}
	if patch.ProfileImage != nil {
		p.ProfileImage = *patch.ProfileImage
	}
	if patch.Notifications != nil {
		p.Notifications = *patch.Notifications
	}
	p.UpdatedAt = now
	m.profiles[userID] = p

	p.Availability = cloneStrings(p.Availability)
	return &p, nil
}

func (m *Memory) SearchProfiles(_ context.Context, f models.ProfileFilter) ([]models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Profile{}
	for _, p := range m.profiles {
		if (f.ExcludeUserID != "" && p.UserID == f.ExcludeUserID) ||
			(f.Position != "" && p.Position != f.Position) ||
			(f.SkillLevel != "" && p.SkillLevel != f.SkillLevel) {
			continue
		}
		p.Availability = cloneStrings(p.Availability)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// Venues ------------------------------------------------------------------------

func (m *Memory) CreateVenue(_ context.Context, venue *models.Venue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	venue.ID = primitive.NewObjectID()
	venue.CreatedAt = now
	venue.UpdatedAt = now
	m.venues[venue.ID] = cloneVenue(*venue)
	return nil
}

func (m *Memory) GetVenueByID(_ context.Context, id string) (*models.Venue, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.venues[objID]
	if !ok {
		return nil, ErrNotFound
	}
	v = cloneVenue(v)
	return &v, nil
}

// FindVenues filters by name only. Geo queries need the Mongo 2dsphere index, so
// Near is ignored here.
func (m *Memory) FindVenues(_ context.Context, f models.VenueFilter) ([]models.Venue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Venue{}
	for _, v := range m.venues {
		if f.Name != "" && !strings.Contains(strings.ToLower(v.Name), strings.ToLower(f.Name)) {
			continue
		}
		out = append(out, cloneVenue(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) BookVenueSlot(_ context.Context, id primitive.ObjectID, date, slotTime string) (*models.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.venues[id]
	if !ok {
		return nil, ErrNotFound
	}
	v = cloneVenue(v)
	for d := range v.AvailableSlots {
		if v.AvailableSlots[d].Date != date {
			continue
		}
		for s := range v.AvailableSlots[d].Slots {
			slot := &v.AvailableSlots[d].Slots[s]
			if slot.Time == slotTime && !slot.IsBooked {
				slot.IsBooked = true
				v.UpdatedAt = time.Now()
				m.venues[id] = v
				out := cloneVenue(v)
				return &out, nil
			}
		}
	}
	return nil, ErrStale
}

// helpers -----------------------------------------------------------------------

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneUser(u models.User) models.User {
	u.Availability = cloneStrings(u.Availability)
	if u.FirebaseUID != nil {
		uid := *u.FirebaseUID
		u.FirebaseUID = &uid
	}
	return u
}

func cloneChat(c models.Chat) models.Chat {
	c.Participants = cloneStrings(c.Participants)
	if c.LastMessageID != nil {
		id := *c.LastMessageID
		c.LastMessageID = &id
	}
	return c
}

func cloneMessage(msg models.Message) models.Message {
	msg.ReadBy = cloneStrings(msg.ReadBy)
	if msg.Attachment != nil {
		a := *msg.Attachment
		msg.Attachment = &a
	}
	if msg.Reactions != nil {
		reactions := make(map[string][]string, len(msg.Reactions))
		for emoji, users := range msg.Reactions {
			reactions[emoji] = cloneStrings(users)
		}
		msg.Reactions = reactions
	}
	return msg
}

func cloneMatch(match models.Match) models.Match {
	match.Players = cloneStrings(match.Players)
	match.PositionsNeeded = cloneStrings(match.PositionsNeeded)
	if match.Score != nil {
		s := *match.Score
		match.Score = &s
	}
	return match
}

func cloneVenue(v models.Venue) models.Venue {
	v.Amenities = cloneStrings(v.Amenities)
	if v.Location != nil {
		loc := *v.Location
		loc.Coordinates = append([]float64(nil), v.Location.Coordinates...)
		v.Location = &loc
	}
	if v.AvailableSlots != nil {
		days := make([]models.DaySlots, len(v.AvailableSlots))
		for i, d := range v.AvailableSlots {
			days[i] = models.DaySlots{Date: d.Date, Slots: append([]models.Slot(nil), d.Slots...)}
		}
		v.AvailableSlots = days
	}
	return v
}
