package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotificationMessage    = "message"
	NotificationMatch      = "match"
	NotificationFeedback   = "feedback"
	NotificationChatUpdate = "chat_update"
)

// Notification represents a user notification (MongoDB)
type Notification struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RecipientID string             `json:"recipient_id" bson:"recipient_id"`
	SenderID    string             `json:"sender_id,omitempty" bson:"sender_id,omitempty"`
	Type        string             `json:"type" bson:"type"`
	Content     string             `json:"content" bson:"content"`
	ChatID      string             `json:"chat_id,omitempty" bson:"chat_id,omitempty"`
	MatchID     string             `json:"match_id,omitempty" bson:"match_id,omitempty"`
	Read        bool               `json:"read" bson:"read"`
	ReadAt      *time.Time         `json:"read_at,omitempty" bson:"read_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// NotificationView includes sender info
type NotificationView struct {
	Notification
	Sender *UserCompact `json:"sender,omitempty"`
}

// MarkNotificationsReadRequest marks specific notifications, or all of them.
type MarkNotificationsReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
	All             bool     `json:"all"`
}
