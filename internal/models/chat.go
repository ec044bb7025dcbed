package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat is a conversation between users (MongoDB).
type Chat struct {
	ID                  primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Participants        []string            `json:"participants" bson:"participants"`
	IsGroupChat         bool                `json:"is_group_chat" bson:"is_group_chat"`
	Name                string              `json:"name,omitempty" bson:"name,omitempty"`
	CreatedBy           string              `json:"created_by" bson:"created_by"`
	DirectKey           string              `json:"-" bson:"direct_key,omitempty"`
	LastMessageID       *primitive.ObjectID `json:"last_message_id,omitempty" bson:"last_message_id,omitempty"`
	LastMessagePreview  string              `json:"last_message_preview,omitempty" bson:"last_message_preview,omitempty"`
	LastMessageSenderID string              `json:"last_message_sender_id,omitempty" bson:"last_message_sender_id,omitempty"`
	LastMessageAt       time.Time           `json:"last_message_at" bson:"last_message_at"`
	CreatedAt           time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at" bson:"updated_at"`
}

// HasParticipant reports whether userID belongs to the chat.
func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant of a direct chat that is not userID.
func (c *Chat) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// DirectKey is the canonical key of the unordered pair {a, b}.
func DirectKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + "|" + pair[1]
}

// ChatView is a chat as returned to a participant.
type ChatView struct {
	Chat
	OtherParticipant   *UserCompact  `json:"other_participant,omitempty"`
	ParticipantDetails []UserCompact `json:"participant_details,omitempty"`
}

type CreateChatRequest struct {
	Participants []string `json:"participants" validate:"required,min=1,dive,required"`
	IsGroupChat  bool     `json:"is_group_chat"`
	Name         string   `json:"name" validate:"max=100"`
}

// UpdateChatRequest changes a group chat. All fields are optional.
type UpdateChatRequest struct {
	Name               *string  `json:"name" validate:"omitempty,max=100"`
	AddParticipants    []string `json:"add_participants" validate:"dive,required"`
	RemoveParticipants []string `json:"remove_participants" validate:"dive,required"`
}
