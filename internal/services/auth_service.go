package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/auth"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/repositories"
	"github.com/anonto42/futsal-matcher/backend/pkg/firebase"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Session is an issued login.
type Session struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      models.UserCompact `json:"user"`
}

type AuthService struct {
	users    repositories.UserRepository
	tokens   *auth.TokenManager
	verifier firebase.TokenVerifier
	log      logrus.FieldLogger
}

// NewAuthService builds the auth service. verifier may be nil, which disables Firebase login.
func NewAuthService(users repositories.UserRepository, tokens *auth.TokenManager, verifier firebase.TokenVerifier, log logrus.FieldLogger) *AuthService {
	return &AuthService{users: users, tokens: tokens, verifier: verifier, log: log}
}

// FirebaseEnabled reports whether Firebase ID token login is available.
func (s *AuthService) FirebaseEnabled() bool {
	return s.verifier != nil
}

// Register creates a local account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("User with this email already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &models.User{
		Name:          strings.TrimSpace(req.Name),
		Email:         email,
		Password:      string(hashed),
		Notifications: defaultPreferences(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Conflict("User with this email already registered")
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// SignIn verifies email and password and issues a session token.
func (s *AuthService) SignIn(ctx context.Context, req *models.SignInRequest) (*Session, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}
	return s.issue(user)
}

// FirebaseLogin verifies a Firebase ID token, links or creates the matching local
// user and issues a session token.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (*Session, error) {
	if s.verifier == nil {
		return nil, apperrors.Unauthorized("Firebase login is not enabled")
	}
	token, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid Firebase ID token")
	}
	identity, err := firebase.IdentityFromToken(token)
	if err != nil {
		return nil, apperrors.Validation("Firebase account has no email address")
	}

	user, err := s.users.GetUserByFirebaseUID(ctx, identity.UID)
	if err == nil {
		return s.issue(user)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	uid := identity.UID
	user, err = s.users.GetUserByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		user.FirebaseUID = &uid
		if user.Image == "" {
			user.Image = identity.Picture
		}
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, apperrors.Internal(err)
		}
		s.log.WithField("user_id", user.ID).Info("linked firebase account to existing user")
	case errors.Is(err, repositories.ErrNotFound):
		name := identity.Name
		if name == "" {
			name = strings.Split(identity.Email, "@")[0]
		}
		user = &models.User{
			Name:          name,
			Email:         strings.ToLower(identity.Email),
			FirebaseUID:   &uid,
			Image:         identity.Picture,
			Notifications: defaultPreferences(),
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, apperrors.Conflict("User with this email already registered")
			}
			return nil, apperrors.Internal(err)
		}
		s.log.WithField("user_id", user.ID).Info("created user from firebase login")
	default:
		return nil, apperrors.Internal(err)
	}
	return s.issue(user)
}

// Authenticate resolves a session token to the user id it was issued for.
func (s *AuthService) Authenticate(token string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return "", apperrors.Unauthorized("Invalid or expired session")
	}
	return claims.UserID, nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user.ToCompact()}, nil
}

func defaultPreferences() models.NotificationPreferences {
	return models.NotificationPreferences{Email: true, App: true, Matches: true, Messages: true}
}
