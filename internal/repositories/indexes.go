package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	ChatsCollection         = "chats"
	MessagesCollection      = "messages"
	NotificationsCollection = "notifications"
	MatchesCollection       = "matches"
	ProfilesCollection      = "profiles"
	VenuesCollection        = "venues"
)

// EnsureIndexes creates the indexes the repositories rely on. Creating an existing
// index is a no-op, so this runs on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		ChatsCollection: {
			{
				Keys:    bson.D{{Key: "direct_key", Value: 1}},
				Options: options.Index().SetName("direct_key_unique").SetUnique(true).SetSparse(true),
			},
			{Keys: bson.D{{Key: "participants", Value: 1}, {Key: "last_message_at", Value: -1}}},
		},
		MessagesCollection: {
			{Keys: bson.D{{Key: "chat_id", Value: 1}, {Key: "_id", Value: -1}}},
		},
		NotificationsCollection: {
			{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "read", Value: 1}}},
		},
		MatchesCollection: {
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "status", Value: 1}, {Key: "date_time", Value: 1}}},
			{Keys: bson.D{{Key: "created_by", Value: 1}}},
			{Keys: bson.D{{Key: "players", Value: 1}}},
		},
		ProfilesCollection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		VenuesCollection: {
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		},
	}

	for collection, idx := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", collection, err)
		}
	}
	return nil
}
