package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageRequiresContentOrFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	chat := f.directChat(t, "u1", "u2")

	for _, chatID := range []string{chat.ID.Hex(), "64b7f0c2a1b2c3d4e5f60718", "bad"} {
		_, err := f.messages().Send(ctx, "u1", SendMessageInput{ChatID: chatID, Content: "   "})
		assertKind(t, apperrors.KindValidation, err)
	}
}

func TestSendMessageAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	chat := f.directChat(t, "u1", "u2")

	_, err := f.messages().Send(ctx, "u3", SendMessageInput{ChatID: chat.ID.Hex(), Content: "let me in"})
	assertKind(t, apperrors.KindForbidden, err)

	_, err = f.messages().Send(ctx, "u1", SendMessageInput{ChatID: "64b7f0c2a1b2c3d4e5f60718", Content: "hello"})
	assertKind(t, apperrors.KindNotFound, err)
}

func TestSendMessageUpdatesChatAndNotifiesOthers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	group, _, err := f.chats().Create(ctx, "u1", &models.CreateChatRequest{Participants: []string{"u2", "u3"}, IsGroupChat: true, Name: "Squad"})
	require.NoError(t, err)
	f.notifier.reset()

	msg, err := f.messages().Send(ctx, "u2", SendMessageInput{ChatID: group.ID.Hex(), Content: "  kickoff at 7  "})
	require.NoError(t, err)
	assert.Equal(t, "kickoff at 7", msg.Content)
	assert.Equal(t, []string{"u2"}, msg.ReadBy)
	assert.Equal(t, "Bob", msg.Sender.Name)

	chat, err := f.repo.GetChatByID(ctx, group.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, chat.LastMessageID)
	assert.Equal(t, msg.ID, *chat.LastMessageID)
	assert.Equal(t, "u2", chat.LastMessageSenderID)

	assert.ElementsMatch(t, []string{"u1", "u3"}, f.notifier.recipients())
	for _, e := range f.notifier.events {
		assert.Equal(t, models.NotificationMessage, e.Type)
		assert.Equal(t, group.ID.Hex(), e.ChatID)
	}
}

func TestSendMessageWithAttachment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	chat := f.directChat(t, "u1", "u2")

	msg, err := f.messages().Send(ctx, "u1", SendMessageInput{
		ChatID: chat.ID.Hex(),
		File:   &FileUpload{Name: "lineup.png", ContentType: "image/png", Size: 4, Body: bytes.NewReader([]byte("\x89PNG"))},
	})
	require.NoError(t, err)
	require.NotNil(t, msg.Attachment)
	assert.Equal(t, "lineup.png", msg.Attachment.Name)
	assert.True(t, strings.HasPrefix(msg.Attachment.URL, "https://files.test/uploads/"))

	stored, err := f.repo.GetChatByID(ctx, chat.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Sent an attachment: lineup.png", stored.LastMessagePreview)

	_, err = f.messages().Send(ctx, "u1", SendMessageInput{
		ChatID: chat.ID.Hex(),
		File:   &FileUpload{Name: "big.pdf", ContentType: "application/pdf", Size: storage.MaxUploadSize + 1, Body: bytes.NewReader(nil)},
	})
	assertKind(t, apperrors.KindValidation, err)

	_, err = f.messages().Send(ctx, "u1", SendMessageInput{
		ChatID: chat.ID.Hex(),
		File:   &FileUpload{Name: "run.sh", ContentType: "text/x-shellscript", Size: 10, Body: bytes.NewReader(nil)},
	})
	assertKind(t, apperrors.KindValidation, err)
}

func TestToggleReactionTwiceRestoresState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	chat := f.directChat(t, "u1", "u2")
	msg, err := f.messages().Send(ctx, "u1", SendMessageInput{ChatID: chat.ID.Hex(), Content: "goal!"})
	require.NoError(t, err)

	req := &models.ReactionRequest{MessageID: msg.ID.Hex(), Emoji: "⚽"}
	reacted, err := f.messages().ToggleReaction(ctx, "u2", req)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, reacted.Reactions["⚽"])

	restored, err := f.messages().ToggleReaction(ctx, "u2", req)
	require.NoError(t, err)
	assert.Empty(t, restored.Reactions)

	_, err = f.messages().ToggleReaction(ctx, "u3", req)
	assertKind(t, apperrors.KindForbidden, err)

	_, err = f.messages().ToggleReaction(ctx, "u2", &models.ReactionRequest{MessageID: msg.ID.Hex(), Emoji: "$set"})
	assertKind(t, apperrors.KindValidation, err)

	_, err = f.messages().ToggleReaction(ctx, "u2", &models.ReactionRequest{MessageID: "64b7f0c2a1b2c3d4e5f60718", Emoji: "👍"})
	assertKind(t, apperrors.KindNotFound, err)
}

func TestListMessagesMarksThemRead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	chat := f.directChat(t, "u1", "u2")
	for _, text := range []string{"one", "two", "three"} {
		_, err := f.messages().Send(ctx, "u1", SendMessageInput{ChatID: chat.ID.Hex(), Content: text})
		require.NoError(t, err)
	}

	list, err := f.messages().List(ctx, "u2", chat.ID.Hex(), "", 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "one", list[0].Content)
	assert.Equal(t, "three", list[2].Content)
	for _, m := range list {
		assert.Contains(t, m.ReadBy, "u2")
		assert.Equal(t, "Alice", m.Sender.Name)
	}

	n, err := f.messages().MarkRead(ctx, "u2", &models.MarkMessagesReadRequest{ChatID: chat.ID.Hex(), MessageIDs: []string{list[0].ID.Hex()}})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.messages().MarkRead(ctx, "u2", &models.MarkMessagesReadRequest{ChatID: chat.ID.Hex(), MessageIDs: []string{"nope"}})
	assertKind(t, apperrors.KindValidation, err)

	_, err = f.messages().List(ctx, "u3", chat.ID.Hex(), "", 0)
	assertKind(t, apperrors.KindForbidden, err)
}
