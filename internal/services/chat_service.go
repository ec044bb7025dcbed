package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/repositories"
)

// ChatService implements chat listing, creation and group membership changes.
type ChatService struct {
	chats    repositories.ChatRepository
	users    repositories.UserRepository
	notifier Notifier
}

func NewChatService(chats repositories.ChatRepository, users repositories.UserRepository, notifier Notifier) *ChatService {
	return &ChatService{chats: chats, users: users, notifier: notifier}
}

// List returns the user's chats, most recently active first. Direct chats carry the
// other participant.
func (s *ChatService) List(ctx context.Context, userID string) ([]models.ChatView, error) {
	chats, err := s.chats.GetChatsByParticipant(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	others := make([]string, 0, len(chats))
	for i := range chats {
		if !chats[i].IsGroupChat {
			others = append(others, chats[i].OtherParticipant(userID))
		}
	}
	people, err := compactUsers(ctx, s.users, others)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	views := make([]models.ChatView, len(chats))
	for i := range chats {
		views[i] = models.ChatView{Chat: chats[i]}
		if !chats[i].IsGroupChat {
			if other, ok := people[chats[i].OtherParticipant(userID)]; ok {
				views[i].OtherParticipant = &other
			}
		}
	}
	return views, nil
}

// Get returns one chat to a participant.
func (s *ChatService) Get(ctx context.Context, userID, chatID string) (*models.ChatView, error) {
	chat, err := s.participantChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, userID, chat)
}

// Create returns the direct chat between the caller and the other participant,
// creating it on first contact, or creates a new group chat. created reports
// whether a chat was inserted.
func (s *ChatService) Create(ctx context.Context, userID string, req *models.CreateChatRequest) (*models.ChatView, bool, error) {
	requested := unique(append([]string{userID}, req.Participants...))
	known, err := compactUsers(ctx, s.users, requested)
	if err != nil {
		return nil, false, apperrors.Internal(err)
	}
	participants := make([]string, 0, len(requested))
	for _, id := range requested {
		if id == userID || hasKey(known, id) {
			participants = append(participants, id)
		}
	}
	if len(participants) < 2 {
		return nil, false, apperrors.Validation("At least 2 unique participants are required")
	}

	if req.IsGroupChat {
		return s.createGroup(ctx, userID, strings.TrimSpace(req.Name), participants)
	}
	if len(participants) > 2 {
		return nil, false, apperrors.Validation("A direct chat has exactly 2 participants")
	}

	chat, created, err := s.chats.UpsertDirectChat(ctx, &models.Chat{
		Participants: participants,
		CreatedBy:    userID,
		DirectKey:    models.DirectKey(participants[0], participants[1]),
	})
	if err != nil {
		return nil, false, apperrors.Internal(err)
	}
	if created {
		s.notifier.Notify(ctx, NotificationEvent{
			RecipientID: chat.OtherParticipant(userID),
			SenderID:    userID,
			Type:        models.NotificationChatUpdate,
			Content:     fmt.Sprintf("%s started a conversation with you", displayName(ctx, s.users, userID)),
			ChatID:      chat.ID.Hex(),
		})
	}

	view, err := s.view(ctx, userID, chat)
	return view, created, err
}

func (s *ChatService) createGroup(ctx context.Context, userID, name string, participants []string) (*models.ChatView, bool, error) {
	if name == "" {
		return nil, false, apperrors.Validation("Group chat name is required")
	}
	chat := &models.Chat{
		Participants: participants,
		IsGroupChat:  true,
		Name:         name,
		CreatedBy:    userID,
	}
	if err := s.chats.CreateChat(ctx, chat); err != nil {
		return nil, false, apperrors.Internal(err)
	}

	added := make([]string, 0, len(participants)-1)
	for _, id := range participants {
		if id != userID {
			added = append(added, id)
		}
	}
	content := fmt.Sprintf("%s added you to %s", displayName(ctx, s.users, userID), name)
	s.notifier.Notify(ctx, s.chatUpdateEvents(chat, userID, added, content)...)

	view, err := s.view(ctx, userID, chat)
	return view, true, err
}

// Update renames a group chat and adds or removes participants. The creator cannot
// be removed and a group never drops below 2 participants.
func (s *ChatService) Update(ctx context.Context, userID, chatID string, req *models.UpdateChatRequest) (*models.ChatView, error) {
	chat, err := s.participantChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsGroupChat {
		return nil, apperrors.Validation("Only group chats can be updated")
	}
	if req.Name == nil && len(req.AddParticipants) == 0 && len(req.RemoveParticipants) == 0 {
		return nil, apperrors.Validation("Nothing to update")
	}

	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("Group chat name is required")
		}
	}

	var added []string
	if len(req.AddParticipants) > 0 {
		known, err := compactUsers(ctx, s.users, req.AddParticipants)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		for _, id := range unique(req.AddParticipants) {
			if !hasKey(known, id) {
				return nil, apperrors.Validation(fmt.Sprintf("User %s does not exist", id))
			}
			if !chat.HasParticipant(id) {
				added = append(added, id)
			}
		}
	}

	removed := unique(req.RemoveParticipants)
	if len(removed) > 0 {
		gone := make(map[string]bool, len(removed))
		for _, id := range removed {
			if id == chat.CreatedBy {
				return nil, apperrors.Validation("The group creator cannot be removed")
			}
			gone[id] = true
		}
		remaining := len(added)
		for _, p := range chat.Participants {
			if !gone[p] {
				remaining++
			}
		}
		if remaining < 2 {
			return nil, apperrors.Validation("A group chat needs at least 2 participants")
		}
	}

	if req.Name != nil {
		if chat, err = s.chats.RenameChat(ctx, chat.ID, name); err != nil {
			return nil, lookupErr(err, "Chat not found")
		}
	}
	if len(added) > 0 {
		if chat, err = s.chats.AddChatParticipants(ctx, chat.ID, added); err != nil {
			return nil, lookupErr(err, "Chat not found")
		}
	}
	if len(removed) > 0 {
		if chat, err = s.chats.RemoveChatParticipants(ctx, chat.ID, removed); err != nil {
			return nil, lookupErr(err, "Chat not found")
		}
	}

	if len(added) > 0 {
		content := fmt.Sprintf("%s added you to %s", displayName(ctx, s.users, userID), chat.Name)
		s.notifier.Notify(ctx, s.chatUpdateEvents(chat, userID, added, content)...)
	}
	return s.view(ctx, userID, chat)
}

func (s *ChatService) chatUpdateEvents(chat *models.Chat, senderID string, recipients []string, content string) []NotificationEvent {
	events := make([]NotificationEvent, 0, len(recipients))
	for _, id := range recipients {
		events = append(events, NotificationEvent{
			RecipientID: id,
			SenderID:    senderID,
			Type:        models.NotificationChatUpdate,
			Content:     content,
			ChatID:      chat.ID.Hex(),
		})
	}
	return events
}

// participantChat loads a chat and checks the caller belongs to it.
func (s *ChatService) participantChat(ctx context.Context, userID, chatID string) (*models.Chat, error) {
	return loadParticipantChat(ctx, s.chats, userID, chatID)
}

func loadParticipantChat(ctx context.Context, chats repositories.ChatRepository, userID, chatID string) (*models.Chat, error) {
	chat, err := chats.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, lookupErr(err, "Chat not found")
	}
	if !chat.HasParticipant(userID) {
		return nil, apperrors.Forbidden("You are not a participant of this chat")
	}
	return chat, nil
}

func (s *ChatService) view(ctx context.Context, userID string, chat *models.Chat) (*models.ChatView, error) {
	view := &models.ChatView{Chat: *chat}
	people, err := compactUsers(ctx, s.users, chat.Participants)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if chat.IsGroupChat {
		view.ParticipantDetails = make([]models.UserCompact, 0, len(chat.Participants))
		for _, id := range chat.Participants {
			if u, ok := people[id]; ok {
				view.ParticipantDetails = append(view.ParticipantDetails, u)
			}
		}
		return view, nil
	}
	if other, ok := people[chat.OtherParticipant(userID)]; ok {
		view.OtherParticipant = &other
	}
	return view, nil
}

func hasKey(m map[string]models.UserCompact, key string) bool {
	_, ok := m[key]
	return ok
}
