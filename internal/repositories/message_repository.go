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

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	GetMessageByID(ctx context.Context, id string) (*models.Message, error)
	// GetMessagesByChatID returns up to limit messages older than the before id
	// (all messages when before is empty), oldest first.
	GetMessagesByChatID(ctx context.Context, chatID primitive.ObjectID, before string, limit int64) ([]models.Message, error)
	MarkMessagesRead(ctx context.Context, chatID primitive.ObjectID, messageIDs []string, userID string) (int64, error)
	AddReaction(ctx context.Context, messageID primitive.ObjectID, emoji, userID string) (*models.Message, error)
	RemoveReaction(ctx context.Context, messageID primitive.ObjectID, emoji, userID string) (*models.Message, error)
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection(MessagesCollection)}
}

func (r *MongoMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

func (r *MongoMessageRepository) GetMessageByID(ctx context.Context, id string) (*models.Message, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var message models.Message
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&message); err != nil {
		return nil, mongoErr(err)
	}
	return &message, nil
}

func (r *MongoMessageRepository) GetMessagesByChatID(ctx context.Context, chatID primitive.ObjectID, before string, limit int64) ([]models.Message, error) {
	filter := bson.M{"chat_id": chatID}
	if before != "" {
		beforeID, err := objectID(before)
		if err != nil {
			return nil, err
		}
		filter["_id"] = bson.M{"$lt": beforeID}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	reverseMessages(messages)
	return messages, nil
}

func (r *MongoMessageRepository) MarkMessagesRead(ctx context.Context, chatID primitive.ObjectID, messageIDs []string, userID string) (int64, error) {
	ids := objectIDs(messageIDs)
	if len(ids) == 0 {
		return 0, nil
	}
	filter := bson.M{
		"_id":     bson.M{"$in": ids},
		"chat_id": chatID,
		"read_by": bson.M{"$ne": userID},
	}
	res, err := r.collection.UpdateMany(ctx, filter, bson.M{"$addToSet": bson.M{"read_by": userID}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MongoMessageRepository) AddReaction(ctx context.Context, messageID primitive.ObjectID, emoji, userID string) (*models.Message, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$addToSet": bson.M{"reactions." + emoji: userID}}
	var message models.Message
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": messageID}, update, opts).Decode(&message); err != nil {
		return nil, mongoErr(err)
	}
	return &message, nil
}

// RemoveReaction pulls userID from the emoji set and drops the key once the set is empty.
func (r *MongoMessageRepository) RemoveReaction(ctx context.Context, messageID primitive.ObjectID, emoji, userID string) (*models.Message, error) {
	field := "reactions." + emoji
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": messageID}, bson.M{"$pull": bson.M{field: userID}}); err != nil {
		return nil, err
	}
	emptied := bson.M{"_id": messageID, field: bson.M{"$size": 0}}
	if _, err := r.collection.UpdateOne(ctx, emptied, bson.M{"$unset": bson.M{field: ""}}); err != nil {
		return nil, err
	}

	var message models.Message
	if err := r.collection.FindOne(ctx, bson.M{"_id": messageID}).Decode(&message); err != nil {
		return nil, mongoErr(err)
	}
	return &message, nil
}

func reverseMessages(messages []models.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
