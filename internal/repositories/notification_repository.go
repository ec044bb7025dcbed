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

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotifications(ctx context.Context, notifications []*models.Notification) error
	GetNotificationsByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int64) ([]models.Notification, error)
	CountUnreadNotifications(ctx context.Context, recipientID string) (int64, error)
	// MarkNotificationsRead flips only unread notifications and returns how many changed.
	MarkNotificationsRead(ctx context.Context, recipientID string, ids []primitive.ObjectID) (int64, error)
	MarkAllNotificationsRead(ctx context.Context, recipientID string) (int64, error)
}

type MongoNotificationRepository struct {
	collection *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection(NotificationsCollection)}
}

// CreateNotifications writes a batch in one round trip.
func (r *MongoNotificationRepository) CreateNotifications(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, len(notifications))
	for i, n := range notifications {
		n.ID = primitive.NewObjectID()
		n.CreatedAt = now
		docs[i] = n
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *MongoNotificationRepository) GetNotificationsByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int64) ([]models.Notification, error) {
	filter := bson.M{"recipient_id": recipientID}
	if unreadOnly {
		filter["read"] = false
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *MongoNotificationRepository) CountUnreadNotifications(ctx context.Context, recipientID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "read": false})
}

func (r *MongoNotificationRepository) MarkNotificationsRead(ctx context.Context, recipientID string, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.markRead(ctx, bson.M{"_id": bson.M{"$in": ids}, "recipient_id": recipientID, "read": false})
}

func (r *MongoNotificationRepository) MarkAllNotificationsRead(ctx context.Context, recipientID string) (int64, error) {
	return r.markRead(ctx, bson.M{"recipient_id": recipientID, "read": false})
}

func (r *MongoNotificationRepository) markRead(ctx context.Context, filter bson.M) (int64, error) {
	update := bson.M{"$set": bson.M{"read": true, "read_at": time.Now()}}
	res, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
