package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/repositories"
)

// ProfileService manages user account fields and player profiles.
type ProfileService struct {
	users    repositories.UserRepository
	profiles repositories.ProfileRepository
}

func NewProfileService(users repositories.UserRepository, profiles repositories.ProfileRepository) *ProfileService {
	return &ProfileService{users: users, profiles: profiles}
}

// GetProfile returns the caller's profile, or nil when none has been saved yet.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.ProfileWithUser, error) {
	profile, err := s.profiles.GetProfileByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	out := &models.ProfileWithUser{Profile: *profile}
	if u, err := s.users.GetUserByID(ctx, userID); err == nil {
		compact := u.ToCompact()
		out.User = &compact
	}
	return out, nil
}

// UpdateUser applies the non-nil fields of req to the caller's account.
func (s *ProfileService) UpdateUser(ctx context.Context, userID string, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "User not found")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("name is required")
		}
		user.Name = name
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Location != nil {
		user.Location = strings.TrimSpace(*req.Location)
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Position != nil {
		user.Position = *req.Position
	}
	if req.SkillLevel != nil {
		user.SkillLevel = *req.SkillLevel
	}
	if req.Availability != nil {
		user.Availability = unique(req.Availability)
	}
	if req.Notifications != nil {
		user.Notifications = *req.Notifications
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// PatchProfile creates or updates the caller's profile document.
func (s *ProfileService) PatchProfile(ctx context.Context, userID string, patch *models.ProfilePatch) (*models.Profile, error) {
	if patch.Availability != nil {
		patch.Availability = unique(patch.Availability)
	}
	profile, err := s.profiles.UpsertProfile(ctx, userID, patch)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return profile, nil
}

// SearchProfiles lists other players' profiles. "any" disables a filter.
func (s *ProfileService) SearchProfiles(ctx context.Context, userID, position, skillLevel string) ([]models.ProfileWithUser, error) {
	profiles, err := s.profiles.SearchProfiles(ctx, models.ProfileFilter{
		ExcludeUserID: userID,
		Position:      anyFilter(position),
		SkillLevel:    anyFilter(skillLevel),
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	ids := make([]string, len(profiles))
	for i := range profiles {
		ids[i] = profiles[i].UserID
	}
	owners, err := compactUsers(ctx, s.users, ids)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	out := make([]models.ProfileWithUser, len(profiles))
	for i := range profiles {
		out[i] = models.ProfileWithUser{Profile: profiles[i]}
		if u, ok := owners[profiles[i].UserID]; ok {
			out[i].User = &u
		}
	}
	return out, nil
}

// ListUsers returns every user in compact form.
func (s *ProfileService) ListUsers(ctx context.Context) ([]models.UserCompact, error) {
	users, err := s.users.GetUsers(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	out := make([]models.UserCompact, len(users))
	for i := range users {
		out[i] = users[i].ToCompact()
	}
	return out, nil
}
