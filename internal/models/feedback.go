package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is a post-match rating from one user about another (PostgreSQL).
// A (match, sender, recipient) triple appears at most once.
type Feedback struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	MatchID     string    `json:"match_id" gorm:"size:24;not null;uniqueIndex:idx_feedback_triple"`
	SenderID    string    `json:"sender_id" gorm:"type:uuid;not null;uniqueIndex:idx_feedback_triple"`
	RecipientID string    `json:"recipient_id" gorm:"type:uuid;not null;uniqueIndex:idx_feedback_triple;index"`
	Rating      int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment     string    `json:"comment" gorm:"size:1000"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

type CreateFeedbackRequest struct {
	MatchID     string `json:"match_id" validate:"required"`
	RecipientID string `json:"recipient_id" validate:"required"`
	Rating      int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment     string `json:"comment" validate:"max=1000"`
}

// FeedbackView is a feedback entry joined with its author.
type FeedbackView struct {
	Feedback
	Sender *UserCompact `json:"sender,omitempty"`
}
