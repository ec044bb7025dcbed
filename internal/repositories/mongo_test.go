package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoChatUpsertDirectChat(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("created", func(mt *mtest.T) {
		repo := NewMongoChatRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 0},
				bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: id}}}},
			),
			mtest.CreateCursorResponse(0, "test.chats", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: id},
				{Key: "participants", Value: bson.A{"u1", "u2"}},
				{Key: "direct_key", Value: "u1|u2"},
			}),
		)

		chat, created, err := repo.UpsertDirectChat(context.Background(), &models.Chat{
			Participants: []string{"u1", "u2"},
			DirectKey:    "u1|u2",
			CreatedBy:    "u1",
		})
		require.NoError(mt, err)
		assert.True(mt, created)
		assert.Equal(mt, id, chat.ID)
		assert.Equal(mt, []string{"u1", "u2"}, chat.Participants)
	})

	mt.Run("lost race", func(mt *mtest.T) {
		repo := NewMongoChatRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}),
			mtest.CreateCursorResponse(0, "test.chats", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: id},
				{Key: "participants", Value: bson.A{"u2", "u1"}},
			}),
		)

		chat, created, err := repo.UpsertDirectChat(context.Background(), &models.Chat{
			Participants: []string{"u1", "u2"},
			DirectKey:    "u1|u2",
		})
		require.NoError(mt, err)
		assert.False(mt, created)
		assert.Equal(mt, id, chat.ID)
	})
}

func TestMongoNotificationMarkRead(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("reports modified count", func(mt *mtest.T) {
		repo := NewMongoNotificationRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		n, err := repo.MarkNotificationsRead(context.Background(), "u1", []primitive.ObjectID{primitive.NewObjectID()})
		require.NoError(mt, err)
		assert.EqualValues(mt, 1, n)
	})

	mt.Run("no ids skips the round trip", func(mt *mtest.T) {
		repo := NewMongoNotificationRepository(mt.DB)
		n, err := repo.MarkNotificationsRead(context.Background(), "u1", nil)
		require.NoError(mt, err)
		assert.Zero(mt, n)
	})
}

func TestMongoNotificationList(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes documents", func(mt *mtest.T) {
		repo := NewMongoNotificationRepository(mt.DB)
		now := time.Now().UTC().Truncate(time.Millisecond)
		first := mtest.CreateCursorResponse(1, "test.notifications", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "recipient_id", Value: "u1"},
			{Key: "type", Value: models.NotificationMessage},
			{Key: "content", Value: "New message"},
			{Key: "read", Value: false},
			{Key: "created_at", Value: now},
		})
		end := mtest.CreateCursorResponse(0, "test.notifications", mtest.NextBatch)
		mt.AddMockResponses(first, end)

		list, err := repo.GetNotificationsByRecipient(context.Background(), "u1", true, 20)
		require.NoError(mt, err)
		require.Len(mt, list, 1)
		assert.Equal(mt, "New message", list[0].Content)
		assert.True(mt, list[0].CreatedAt.Equal(now))
	})
}

func TestMongoMatchConditionalUpdateIsStale(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no document matched", func(mt *mtest.T) {
		repo := NewMongoMatchRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.AddMatchOpponent(context.Background(), primitive.NewObjectID(), "u2")
		assert.ErrorIs(mt, err, ErrStale)
	})
}

func TestMongoErrTranslation(t *testing.T) {
	assert.ErrorIs(t, mongoErr(mongo.ErrNoDocuments), ErrNotFound)
	assert.NoError(t, mongoErr(nil))
	_, err := objectID("nope")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.Len(t, objectIDs([]string{"nope", primitive.NewObjectID().Hex()}), 1)
}
