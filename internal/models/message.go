package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment is a file sent with a message.
type Attachment struct {
	URL  string `json:"url" bson:"url"`
	Type string `json:"type" bson:"type"`
	Name string `json:"name" bson:"name"`
}

// Message belongs to exactly one chat (MongoDB). Content or Attachment is always present.
type Message struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	ChatID     primitive.ObjectID  `json:"chat_id" bson:"chat_id"`
	SenderID   string              `json:"sender_id" bson:"sender_id"`
	Content    string              `json:"content,omitempty" bson:"content,omitempty"`
	Attachment *Attachment         `json:"attachment,omitempty" bson:"attachment,omitempty"`
	ReadBy     []string            `json:"read_by" bson:"read_by"`
	Reactions  map[string][]string `json:"reactions,omitempty" bson:"reactions,omitempty"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
}

// HasReaction reports whether userID reacted to the message with emoji.
func (m *Message) HasReaction(emoji, userID string) bool {
	for _, id := range m.Reactions[emoji] {
		if id == userID {
			return true
		}
	}
	return false
}

// MessageView is a message joined with its sender.
type MessageView struct {
	Message
	Sender *UserCompact `json:"sender,omitempty"`
}

// SendMessageRequest is the form body of POST /messages (the file part is read separately).
type SendMessageRequest struct {
	ChatID  string `form:"chat_id" json:"chat_id" validate:"required"`
	Content string `form:"content" json:"content" validate:"max=5000"`
}

type ReactionRequest struct {
	MessageID string `json:"message_id" validate:"required"`
	Emoji     string `json:"emoji" validate:"notblank,max=32"`
}

type MarkMessagesReadRequest struct {
	ChatID     string   `json:"chat_id" validate:"required"`
	MessageIDs []string `json:"message_ids" validate:"required,min=1,dive,required"`
}
