package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/repositories"
)

// FeedbackSummary is the feedback a user received and its average rating.
type FeedbackSummary struct {
	Feedback      []models.FeedbackView `json:"feedback"`
	AverageRating float64               `json:"average_rating"`
	Count         int                   `json:"count"`
}

type FeedbackService struct {
	feedback repositories.FeedbackRepository
	matches  repositories.MatchRepository
	users    repositories.UserRepository
	notifier Notifier
}

func NewFeedbackService(feedback repositories.FeedbackRepository, matches repositories.MatchRepository, users repositories.UserRepository, notifier Notifier) *FeedbackService {
	return &FeedbackService{feedback: feedback, matches: matches, users: users, notifier: notifier}
}

// Create records one rating per (match, sender, recipient) and notifies the recipient.
func (s *FeedbackService) Create(ctx context.Context, userID string, req *models.CreateFeedbackRequest) (*models.Feedback, error) {
	if req.RecipientID == userID {
		return nil, apperrors.Validation("You cannot leave feedback for yourself")
	}
	match, err := s.matches.GetMatchByID(ctx, req.MatchID)
	if err != nil {
		return nil, lookupErr(err, "Match not found")
	}
	if _, err := s.users.GetUserByID(ctx, req.RecipientID); err != nil {
		return nil, lookupErr(err, "Recipient not found")
	}

	exists, err := s.feedback.FeedbackExists(ctx, match.ID.Hex(), userID, req.RecipientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if exists {
		return nil, apperrors.Conflict("Feedback already submitted for this match")
	}

	feedback := &models.Feedback{
		MatchID:     match.ID.Hex(),
		SenderID:    userID,
		RecipientID: req.RecipientID,
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
	}
	if err := s.feedback.CreateFeedback(ctx, feedback); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Conflict("Feedback already submitted for this match")
		}
		return nil, apperrors.Internal(err)
	}

	s.notifier.Notify(ctx, NotificationEvent{
		RecipientID: req.RecipientID,
		SenderID:    userID,
		Type:        models.NotificationFeedback,
		Content:     fmt.Sprintf("%s rated you %d/5", displayName(ctx, s.users, userID), req.Rating),
		MatchID:     feedback.MatchID,
	})
	return feedback, nil
}

// ListReceived returns the feedback addressed to the caller, newest first.
func (s *FeedbackService) ListReceived(ctx context.Context, userID string) (*FeedbackSummary, error) {
	received, err := s.feedback.GetFeedbackByRecipient(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	senderIDs := make([]string, len(received))
	for i := range received {
		senderIDs[i] = received[i].SenderID
	}
	senders, err := compactUsers(ctx, s.users, senderIDs)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	summary := &FeedbackSummary{Feedback: make([]models.FeedbackView, len(received)), Count: len(received)}
	total := 0
	for i := range received {
		total += received[i].Rating
		summary.Feedback[i] = models.FeedbackView{Feedback: received[i]}
		if u, ok := senders[received[i].SenderID]; ok {
			summary.Feedback[i].Sender = &u
		}
	}
	if len(received) > 0 {
		summary.AverageRating = math.Round(float64(total)/float64(len(received))*10) / 10
	}
	return summary, nil
}
