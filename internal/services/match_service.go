package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/repositories"
)

// SearchPageSize caps match search results.
const SearchPageSize = 10

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// MatchService creates, searches, joins and transitions matches.
type MatchService struct {
	matches  repositories.MatchRepository
	users    repositories.UserRepository
	notifier Notifier
}

func NewMatchService(matches repositories.MatchRepository, users repositories.UserRepository, notifier Notifier) *MatchService {
	return &MatchService{matches: matches, users: users, notifier: notifier}
}

// Create stores an open match with the creator as its only player. Date and time are
// interpreted in UTC.
func (s *MatchService) Create(ctx context.Context, userID string, req *models.CreateMatchRequest) (*models.Match, error) {
	when, err := time.ParseInLocation(dateLayout+" "+timeLayout, req.Date+" "+req.Time, time.UTC)
	if err != nil {
		return nil, apperrors.Validation("Invalid match date or time")
	}

	match := &models.Match{
		CreatedBy:       userID,
		Type:            req.Type,
		Location:        strings.TrimSpace(req.Location),
		Venue:           strings.TrimSpace(req.Venue),
		Distance:        req.Distance,
		DateTime:        when,
		TeamSize:        req.TeamSize,
		IsSkillBased:    req.IsSkillBased,
		PositionsNeeded: req.PositionsNeeded,
		SkillLevel:      req.SkillLevel,
		Status:          models.MatchOpen,
		Players:         []string{userID},
	}
	if err := s.matches.CreateMatch(ctx, match); err != nil {
		return nil, apperrors.Internal(err)
	}
	return match, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (*models.Match, error) {
	match, err := s.matches.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, lookupErr(err, "Match not found")
	}
	return match, nil
}

// ListMine returns matches the caller created or takes part in, newest first.
func (s *MatchService) ListMine(ctx context.Context, userID string) ([]models.Match, error) {
	matches, err := s.matches.GetMatchesByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return matches, nil
}

// Search finds open matches of other users, soonest first. A date alone selects that
// whole day; a date with a time selects the hour starting at that time.
func (s *MatchService) Search(ctx context.Context, userID string, req *models.MatchSearchRequest) ([]models.Match, error) {
	filter := models.MatchFilter{
		Type:          req.Type,
		Status:        models.MatchOpen,
		ExcludeUserID: userID,
		Location:      strings.TrimSpace(req.Location),
		MaxDistance:   req.Distance,
		TeamSize:      req.TeamSize,
		Position:      anyFilter(req.Position),
		SkillLevel:    anyFilter(req.SkillLevel),
		Limit:         SearchPageSize,
	}
	if filter.Type == "" {
		filter.Type = models.MatchTypeOpponents
	}
	if req.IsSkillBased != "" {
		skillBased := req.IsSkillBased == "true"
		filter.IsSkillBased = &skillBased
	}

	if req.Date != "" {
		from, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
		if err != nil {
			return nil, apperrors.Validation("Invalid date")
		}
		to := from.Add(24 * time.Hour)
		if req.Time != "" {
			clock, err := time.ParseInLocation(timeLayout, req.Time, time.UTC)
			if err != nil {
				return nil, apperrors.Validation("Invalid time")
			}
			from = from.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
			to = from.Add(time.Hour)
		}
		filter.From, filter.To = &from, &to
	}

	matches, err := s.matches.SearchMatches(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return matches, nil
}

// Join adds the caller to an open match. Joining an opponents match makes the caller
// the opponent; a teammates match becomes matched once the team is full.
func (s *MatchService) Join(ctx context.Context, userID, matchID string) (*models.Match, error) {
	match, err := s.matches.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, lookupErr(err, "Match not found")
	}
	switch {
	case match.CreatedBy == userID:
		return nil, apperrors.Validation("You cannot join your own match")
	case match.HasPlayer(userID):
		return nil, apperrors.Conflict("You already joined this match")
	case match.Status != models.MatchOpen:
		return nil, apperrors.Conflict("Match is no longer open")
	}

	if match.Type == models.MatchTypeOpponents {
		match, err = s.matches.AddMatchOpponent(ctx, match.ID, userID)
	} else {
		match, err = s.matches.AddMatchTeammate(ctx, match.ID, userID)
	}
	if errors.Is(err, repositories.ErrStale) {
		return nil, apperrors.Conflict("Match is no longer open")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.notifier.Notify(ctx, NotificationEvent{
		RecipientID: match.CreatedBy,
		SenderID:    userID,
		Type:        models.NotificationMatch,
		Content:     fmt.Sprintf("%s joined your match at %s", displayName(ctx, s.users, userID), match.Location),
		MatchID:     match.ID.Hex(),
	})
	return match, nil
}

// UpdateStatus transitions a match. Only the creator or the opponent may do so, and
// the other of the two is notified. Reopening an opponents match releases the opponent.
func (s *MatchService) UpdateStatus(ctx context.Context, userID, matchID string, req *models.UpdateMatchRequest) (*models.Match, error) {
	match, err := s.matches.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, lookupErr(err, "Match not found")
	}
	if userID != match.CreatedBy && (match.OpponentID == "" || userID != match.OpponentID) {
		return nil, apperrors.Forbidden("Only the match creator or opponent can update this match")
	}
	if !match.CanTransitionTo(req.Status) {
		return nil, apperrors.Validation(fmt.Sprintf("Cannot change match status from %s to %s", match.Status, req.Status))
	}
	if req.Score != nil && req.Status != models.MatchCompleted {
		return nil, apperrors.Validation("A score can only be recorded when completing a match")
	}

	change := repositories.MatchStatusChange{From: match.Status, To: req.Status, Score: req.Score}
	if req.Status == models.MatchOpen && match.OpponentID != "" {
		change.ReleaseOpponent = match.OpponentID
	}
	counterpart := match.Counterpart(userID)

	updated, err := s.matches.UpdateMatchStatus(ctx, match.ID, change)
	if errors.Is(err, repositories.ErrStale) {
		return nil, apperrors.Conflict("Match was updated concurrently, reload and retry")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.notifier.Notify(ctx, NotificationEvent{
		RecipientID: counterpart,
		SenderID:    userID,
		Type:        models.NotificationMatch,
		Content:     fmt.Sprintf("Match at %s is now %s", updated.Location, updated.Status),
		MatchID:     updated.ID.Hex(),
	})
	return updated, nil
}

// anyFilter treats "any" as no filter.
func anyFilter(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "any") {
		return ""
	}
	return v
}
