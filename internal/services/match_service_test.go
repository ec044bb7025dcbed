package services

import (
	"context"
	"testing"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatchRequest(matchType, date, clock string) *models.CreateMatchRequest {
	return &models.CreateMatchRequest{
		Type:     matchType,
		Location: "Dhanmondi Arena",
		Date:     date,
		Time:     clock,
		TeamSize: 5,
	}
}

func TestCreateMatchStartsOpen(t *testing.T) {
	f := newFixture(t)
	match, err := f.matches().Create(context.Background(), "u1", newMatchRequest(models.MatchTypeOpponents, "2026-11-02", "18:30"))
	require.NoError(t, err)

	assert.Equal(t, models.MatchOpen, match.Status)
	assert.Equal(t, []string{"u1"}, match.Players)
	assert.Equal(t, "2026-11-02T18:30:00Z", match.DateTime.Format("2006-01-02T15:04:05Z07:00"))
}

func TestSearchExcludesOwnMatches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.matches()

	_, err := svc.Create(ctx, "u1", newMatchRequest(models.MatchTypeOpponents, "2026-11-02", "18:00"))
	require.NoError(t, err)
	theirs, err := svc.Create(ctx, "u2", newMatchRequest(models.MatchTypeOpponents, "2026-11-02", "19:00"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u2", newMatchRequest(models.MatchTypeTeammates, "2026-11-02", "19:00"))
	require.NoError(t, err)

	found, err := svc.Search(ctx, "u1", &models.MatchSearchRequest{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, theirs.ID, found[0].ID)

	found, err = svc.Search(ctx, "u1", &models.MatchSearchRequest{Date: "2026-11-02", Time: "18:00"})
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = svc.Search(ctx, "u1", &models.MatchSearchRequest{Date: "2026-11-02", Time: "19:00", SkillLevel: "any"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = svc.Search(ctx, "u1", &models.MatchSearchRequest{Date: "2026-11-03"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestJoinOpponentsMatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.matches()
	match, err := svc.Create(ctx, "u1", newMatchRequest(models.MatchTypeOpponents, "2026-11-02", "18:00"))
	require.NoError(t, err)
	id := match.ID.Hex()

	_, err = svc.Join(ctx, "u1", id)
	assertKind(t, apperrors.KindValidation, err)

	joined, err := svc.Join(ctx, "u2", id)
	require.NoError(t, err)
	assert.Equal(t, models.MatchMatched, joined.Status)
	assert.Equal(t, "u2", joined.OpponentID)
	assert.Equal(t, []string{"u1"}, f.notifier.recipients())

	_, err = svc.Join(ctx, "u2", id)
	assertKind(t, apperrors.KindConflict, err)

	_, err = svc.Join(ctx, "u3", id)
	assertKind(t, apperrors.KindConflict, err)

	_, err = svc.Join(ctx, "u3", "64b7f0c2a1b2c3d4e5f60718")
	assertKind(t, apperrors.KindNotFound, err)
}

func TestJoinTeammatesMatchFillsUp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.matches()
	req := newMatchRequest(models.MatchTypeTeammates, "2026-11-02", "18:00")
	req.TeamSize = 2
	match, err := svc.Create(ctx, "u1", req)
	require.NoError(t, err)

	full, err := svc.Join(ctx, "u2", match.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.MatchMatched, full.Status)
	assert.Equal(t, []string{"u1", "u2"}, full.Players)

	_, err = svc.Join(ctx, "u3", match.ID.Hex())
	assertKind(t, apperrors.KindConflict, err)
}

func TestUpdateMatchStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.matches()
	match, err := svc.Create(ctx, "u1", newMatchRequest(models.MatchTypeOpponents, "2026-11-02", "18:00"))
	require.NoError(t, err)
	id := match.ID.Hex()

	_, err = svc.UpdateStatus(ctx, "u2", id, &models.UpdateMatchRequest{Status: models.MatchCancelled})
	assertKind(t, apperrors.KindForbidden, err)

	_, err = svc.UpdateStatus(ctx, "u1", id, &models.UpdateMatchRequest{Status: models.MatchCompleted})
	assertKind(t, apperrors.KindValidation, err)

	_, err = svc.Join(ctx, "u2", id)
	require.NoError(t, err)
	f.notifier.reset()

	_, err = svc.UpdateStatus(ctx, "u3", id, &models.UpdateMatchRequest{Status: models.MatchCompleted})
	assertKind(t, apperrors.KindForbidden, err)

	_, err = svc.UpdateStatus(ctx, "u2", id, &models.UpdateMatchRequest{Status: models.MatchCancelled, Score: &models.Score{Creator: 1}})
	assertKind(t, apperrors.KindValidation, err)

	done, err := svc.UpdateStatus(ctx, "u2", id, &models.UpdateMatchRequest{Status: models.MatchCompleted, Score: &models.Score{Creator: 3, Opponent: 2}})
	require.NoError(t, err)
	assert.Equal(t, models.MatchCompleted, done.Status)
	require.NotNil(t, done.Score)
	assert.Equal(t, 3, done.Score.Creator)
	assert.Equal(t, []string{"u1"}, f.notifier.recipients())
	assert.Equal(t, "Match at Dhanmondi Arena is now completed", f.notifier.events[0].Content)

	_, err = svc.UpdateStatus(ctx, "u1", id, &models.UpdateMatchRequest{Status: models.MatchOpen})
	assertKind(t, apperrors.KindValidation, err)
}

func TestReopenReleasesOpponent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.matches()
	match, err := svc.Create(ctx, "u1", newMatchRequest(models.MatchTypeOpponents, "2026-11-02", "18:00"))
	require.NoError(t, err)
	_, err = svc.Join(ctx, "u2", match.ID.Hex())
	require.NoError(t, err)
	f.notifier.reset()

	reopened, err := svc.UpdateStatus(ctx, "u1", match.ID.Hex(), &models.UpdateMatchRequest{Status: models.MatchOpen})
	require.NoError(t, err)
	assert.Equal(t, models.MatchOpen, reopened.Status)
	assert.Empty(t, reopened.OpponentID)
	assert.Equal(t, []string{"u1"}, reopened.Players)
	assert.Equal(t, []string{"u2"}, f.notifier.recipients())

	again, err := svc.Join(ctx, "u3", match.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "u3", again.OpponentID)
}

func TestListMineIncludesJoinedMatches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.matches()
	own, err := svc.Create(ctx, "u1", newMatchRequest(models.MatchTypeOpponents, "2026-11-02", "18:00"))
	require.NoError(t, err)
	other, err := svc.Create(ctx, "u2", newMatchRequest(models.MatchTypeOpponents, "2026-11-03", "18:00"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u3", newMatchRequest(models.MatchTypeOpponents, "2026-11-04", "18:00"))
	require.NoError(t, err)
	_, err = svc.Join(ctx, "u1", other.ID.Hex())
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, "u1")
	require.NoError(t, err)
	ids := make([]string, len(mine))
	for i := range mine {
		ids[i] = mine[i].ID.Hex()
	}
	assert.ElementsMatch(t, []string{own.ID.Hex(), other.ID.Hex()}, ids)
}
