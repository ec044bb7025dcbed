package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/repositories"
	"github.com/anonto42/futsal-matcher/backend/pkg/metrics"
	"github.com/anonto42/futsal-matcher/backend/pkg/storage"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 200
	previewLength       = 100
)

// SendMessageInput is a message to post into a chat. File is optional.
type SendMessageInput struct {
	ChatID  string
	Content string
	File    *FileUpload
}

// MessageService sends, lists, reacts to and marks messages.
type MessageService struct {
	chats    repositories.ChatRepository
	messages repositories.MessageRepository
	users    repositories.UserRepository
	store    storage.Store
	notifier Notifier
	log      logrus.FieldLogger
}

func NewMessageService(
	chats repositories.ChatRepository,
	messages repositories.MessageRepository,
	users repositories.UserRepository,
	store storage.Store,
	notifier Notifier,
	log logrus.FieldLogger,
) *MessageService {
	return &MessageService{
		chats:    chats,
		messages: messages,
		users:    users,
		store:    store,
		notifier: notifier,
		log:      log,
	}
}

// Send persists a message, moves the chat's last-message pointer and then notifies
// every other participant, in that order.
func (s *MessageService) Send(ctx context.Context, userID string, in SendMessageInput) (*models.MessageView, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && in.File == nil {
		return nil, apperrors.Validation("Message content or file is required")
	}

	chat, err := loadParticipantChat(ctx, s.chats, userID, in.ChatID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		ChatID:   chat.ID,
		SenderID: userID,
		Content:  content,
		ReadBy:   []string{userID},
	}
	if in.File != nil {
		attachment, err := s.storeAttachment(ctx, in.File)
		if err != nil {
			return nil, err
		}
		message.Attachment = attachment
	}

	if err := s.messages.CreateMessage(ctx, message); err != nil {
		return nil, apperrors.Internal(err)
	}
	metrics.MessageSent()

	preview := truncate(content, previewLength)
	if preview == "" {
		preview = "Sent an attachment: " + message.Attachment.Name
	}
	if err := s.chats.SetChatLastMessage(ctx, message, preview); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("update chat %s last message: %w", chat.ID.Hex(), err))
	}

	sender := displayName(ctx, s.users, userID)
	events := make([]NotificationEvent, 0, len(chat.Participants))
	for _, p := range chat.Participants {
		if p == userID {
			continue
		}
		events = append(events, NotificationEvent{
			RecipientID: p,
			SenderID:    userID,
			Type:        models.NotificationMessage,
			Content:     fmt.Sprintf("%s: %s", sender, preview),
			ChatID:      chat.ID.Hex(),
		})
	}
	s.notifier.Notify(ctx, events...)

	view := &models.MessageView{Message: *message}
	if u, err := s.users.GetUserByID(ctx, userID); err == nil {
		compact := u.ToCompact()
		view.Sender = &compact
	}
	return view, nil
}

func (s *MessageService) storeAttachment(ctx context.Context, file *FileUpload) (*models.Attachment, error) {
	if err := storage.Check(file.Size, file.ContentType); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	obj, err := s.store.Put(ctx, file.Name, file.ContentType, file.Body, file.Size)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, apperrors.Validation(err.Error())
		}
		return nil, apperrors.Internal(err)
	}
	return &models.Attachment{URL: obj.URL, Type: obj.ContentType, Name: obj.Name}, nil
}

// List returns a page of the chat's messages, oldest first, and marks them read by
// the caller.
func (s *MessageService) List(ctx context.Context, userID, chatID, before string, limit int) ([]models.MessageView, error) {
	chat, err := loadParticipantChat(ctx, s.chats, userID, chatID)
	if err != nil {
		return nil, err
	}
	limit = clamp(limit, 1, maxMessageLimit, defaultMessageLimit)

	messages, err := s.messages.GetMessagesByChatID(ctx, chat.ID, before, int64(limit))
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidID) {
			return nil, apperrors.Validation("Invalid before cursor")
		}
		return nil, apperrors.Internal(err)
	}

	var unread []string
	senderIDs := make([]string, 0, len(messages))
	for i := range messages {
		senderIDs = append(senderIDs, messages[i].SenderID)
		if !containsUser(messages[i].ReadBy, userID) {
			unread = append(unread, messages[i].ID.Hex())
			messages[i].ReadBy = append(messages[i].ReadBy, userID)
		}
	}
	if len(unread) > 0 {
		if _, err := s.messages.MarkMessagesRead(ctx, chat.ID, unread, userID); err != nil {
			s.log.WithError(err).WithField("chat_id", chatID).Warn("failed to mark listed messages read")
		}
	}

	senders, err := compactUsers(ctx, s.users, senderIDs)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	views := make([]models.MessageView, len(messages))
	for i := range messages {
		views[i] = models.MessageView{Message: messages[i]}
		if u, ok := senders[messages[i].SenderID]; ok {
			views[i].Sender = &u
		}
	}
	return views, nil
}

// ToggleReaction adds the caller's emoji reaction, or removes it when already present.
func (s *MessageService) ToggleReaction(ctx context.Context, userID string, req *models.ReactionRequest) (*models.Message, error) {
	emoji := strings.TrimSpace(req.Emoji)
	if emoji == "" || strings.Contains(emoji, ".") || strings.HasPrefix(emoji, "$") {
		return nil, apperrors.Validation("Invalid emoji")
	}

	message, err := s.messages.GetMessageByID(ctx, req.MessageID)
	if err != nil {
		return nil, lookupErr(err, "Message not found")
	}
	if _, err := loadParticipantChat(ctx, s.chats, userID, message.ChatID.Hex()); err != nil {
		return nil, err
	}

	if message.HasReaction(emoji, userID) {
		message, err = s.messages.RemoveReaction(ctx, message.ID, emoji, userID)
	} else {
		message, err = s.messages.AddReaction(ctx, message.ID, emoji, userID)
	}
	if err != nil {
		return nil, lookupErr(err, "Message not found")
	}
	return message, nil
}

// MarkRead adds the caller to the read set of the given messages. It returns how many
// messages changed.
func (s *MessageService) MarkRead(ctx context.Context, userID string, req *models.MarkMessagesReadRequest) (int64, error) {
	chat, err := loadParticipantChat(ctx, s.chats, userID, req.ChatID)
	if err != nil {
		return 0, err
	}
	valid := false
	for _, id := range req.MessageIDs {
		if primitive.IsValidObjectID(id) {
			valid = true
			break
		}
	}
	if !valid {
		return 0, apperrors.Validation("No valid message ids supplied")
	}

	n, err := s.messages.MarkMessagesRead(ctx, chat.ID, req.MessageIDs, userID)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return n, nil
}

func containsUser(ids []string, userID string) bool {
	for _, id := range ids {
		if id == userID {
			return true
		}
	}
	return false
}
