package auth

import (
	"testing"
	"time"

	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("secret", 0)
	token, exp, err := m.Issue(&models.User{ID: "u1", Email: "a@example.com"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), exp, time.Minute)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	token, _, err := NewTokenManager("other", 0).Issue(&models.User{ID: "u1"})
	require.NoError(t, err)
	_, err = NewTokenManager("secret", 0).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// NewTokenManager replaces non-positive ttls with the default.
	short := &TokenManager{secret: []byte("secret"), ttl: -time.Minute}
	expired, _, err := short.Issue(&models.User{ID: "u1"})
	require.NoError(t, err)
	_, err = short.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = short.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
