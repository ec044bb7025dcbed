package repositories

import (
	"context"

	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"gorm.io/gorm"
)

// FeedbackRepository defines the interface for feedback operations
type FeedbackRepository interface {
	// CreateFeedback returns ErrDuplicate when the (match, sender, recipient) triple exists.
	CreateFeedback(ctx context.Context, feedback *models.Feedback) error
	FeedbackExists(ctx context.Context, matchID, senderID, recipientID string) (bool, error)
	GetFeedbackByRecipient(ctx context.Context, recipientID string) ([]models.Feedback, error)
}

type PostgresFeedbackRepository struct {
	db *gorm.DB
}

func NewPostgresFeedbackRepository(db *gorm.DB) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{db: db}
}

func (r *PostgresFeedbackRepository) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	return gormErr(r.db.WithContext(ctx).Create(feedback).Error)
}

func (r *PostgresFeedbackRepository) FeedbackExists(ctx context.Context, matchID, senderID, recipientID string) (bool, error) {
	if len(uuidStrings([]string{senderID, recipientID})) < 2 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("match_id = ? AND sender_id = ? AND recipient_id = ?", matchID, senderID, recipientID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresFeedbackRepository) GetFeedbackByRecipient(ctx context.Context, recipientID string) ([]models.Feedback, error) {
	var feedback []models.Feedback
	if len(uuidStrings([]string{recipientID})) == 0 {
		return feedback, nil
	}
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&feedback).Error
	return feedback, err
}
