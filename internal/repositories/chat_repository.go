package repositories

import (
	"context"
	"time"

	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository defines the interface for chat data operations
type ChatRepository interface {
	// UpsertDirectChat returns the direct chat keyed by chat.DirectKey, creating it from
	// chat when none exists. created reports whether this call inserted it.
	UpsertDirectChat(ctx context.Context, chat *models.Chat) (result *models.Chat, created bool, err error)
	CreateChat(ctx context.Context, chat *models.Chat) error
	GetChatByID(ctx context.Context, id string) (*models.Chat, error)
	GetChatsByParticipant(ctx context.Context, userID string) ([]models.Chat, error)
	SetChatLastMessage(ctx context.Context, message *models.Message, preview string) error
	AddChatParticipants(ctx context.Context, chatID primitive.ObjectID, userIDs []string) (*models.Chat, error)
	RemoveChatParticipants(ctx context.Context, chatID primitive.ObjectID, userIDs []string) (*models.Chat, error)
	RenameChat(ctx context.Context, chatID primitive.ObjectID, name string) (*models.Chat, error)
}

// MongoChatRepository implements ChatRepository for MongoDB
type MongoChatRepository struct {
	collection *mongo.Collection
}

// NewMongoChatRepository creates a new MongoChatRepository
func NewMongoChatRepository(db *mongo.Database) *MongoChatRepository {
	return &MongoChatRepository{collection: db.Collection(ChatsCollection)}
}

func (r *MongoChatRepository) UpsertDirectChat(ctx context.Context, chat *models.Chat) (*models.Chat, bool, error) {
	now := time.Now()
	filter := bson.M{"direct_key": chat.DirectKey}
	update := bson.M{
		"$setOnInsert": bson.M{
			"participants":    chat.Participants,
			"is_group_chat":   false,
			"created_by":      chat.CreatedBy,
			"last_message_at": now,
			"created_at":      now,
			"updated_at":      now,
		},
	}

	created := false
	res, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	switch {
	case err == nil:
		created = res.UpsertedID != nil
	case mongo.IsDuplicateKeyError(err):
		// A concurrent upsert for the same pair won; read its document.
	default:
		return nil, false, err
	}

	var existing models.Chat
	if err := r.collection.FindOne(ctx, filter).Decode(&existing); err != nil {
		return nil, false, mongoErr(err)
	}
	return &existing, created, nil
}

// CreateChat inserts a group chat.
func (r *MongoChatRepository) CreateChat(ctx context.Context, chat *models.Chat) error {
	now := time.Now()
	chat.ID = primitive.NewObjectID()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	chat.LastMessageAt = now
	_, err := r.collection.InsertOne(ctx, chat)
	return mongoErr(err)
}

func (r *MongoChatRepository) GetChatByID(ctx context.Context, id string) (*models.Chat, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var chat models.Chat
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&chat); err != nil {
		return nil, mongoErr(err)
	}
	return &chat, nil
}

// GetChatsByParticipant lists the user's chats, most recent activity first.
func (r *MongoChatRepository) GetChatsByParticipant(ctx context.Context, userID string) ([]models.Chat, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"participants": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	chats := []models.Chat{}
	if err = cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *MongoChatRepository) SetChatLastMessage(ctx context.Context, message *models.Message, preview string) error {
	update := bson.M{
		"$set": bson.M{
			"last_message_id":        message.ID,
			"last_message_preview":   preview,
			"last_message_sender_id": message.SenderID,
			"last_message_at":        message.CreatedAt,
			"updated_at":             time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": message.ChatID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoChatRepository) AddChatParticipants(ctx context.Context, chatID primitive.ObjectID, userIDs []string) (*models.Chat, error) {
	return r.findAndUpdate(ctx, bson.M{"_id": chatID}, bson.M{
		"$addToSet": bson.M{"participants": bson.M{"$each": userIDs}},
		"$set":      bson.M{"updated_at": time.Now()},
	})
}

func (r *MongoChatRepository) RemoveChatParticipants(ctx context.Context, chatID primitive.ObjectID, userIDs []string) (*models.Chat, error) {
	return r.findAndUpdate(ctx, bson.M{"_id": chatID}, bson.M{
		"$pull": bson.M{"participants": bson.M{"$in": userIDs}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

func (r *MongoChatRepository) RenameChat(ctx context.Context, chatID primitive.ObjectID, name string) (*models.Chat, error) {
	return r.findAndUpdate(ctx, bson.M{"_id": chatID}, bson.M{
		"$set": bson.M{"name": name, "updated_at": time.Now()},
	})
}

func (r *MongoChatRepository) findAndUpdate(ctx context.Context, filter, update bson.M) (*models.Chat, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var chat models.Chat
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&chat); err != nil {
		return nil, mongoErr(err)
	}
	return &chat, nil
}
