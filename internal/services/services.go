// Package services holds the domain operations behind the HTTP handlers. Services
// validate authorization and invariants, call repositories and emit notification
// events; they return *apperrors.Error values for every expected failure.
package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/repositories"
)

// FileUpload is a file received from a client.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// lookupErr maps a repository lookup failure onto NotFound, or Internal for anything unexpected.
func lookupErr(err error, notFound string) error {
	if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrInvalidID) {
		return apperrors.NotFound(notFound)
	}
	return apperrors.Internal(err)
}

// compactUsers loads the users behind ids, keyed by id. Unknown ids are absent from the map.
func compactUsers(ctx context.Context, users repositories.UserRepository, ids []string) (map[string]models.UserCompact, error) {
	out := make(map[string]models.UserCompact, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := users.GetUsersByIDs(ctx, unique(ids))
	if err != nil {
		return nil, err
	}
	for i := range found {
		out[found[i].ID] = found[i].ToCompact()
	}
	return out, nil
}

// displayName returns the user's name, or a neutral fallback when it cannot be loaded.
func displayName(ctx context.Context, users repositories.UserRepository, id string) string {
	u, err := users.GetUserByID(ctx, id)
	if err != nil || strings.TrimSpace(u.Name) == "" {
		return "Someone"
	}
	return u.Name
}

// unique de-duplicates ids keeping first occurrences in order and dropping blanks.
func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "…"
}

// clamp bounds v to [lo, hi], using def when v is unset.
func clamp(v, lo, hi, def int) int {
	if v <= 0 {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
