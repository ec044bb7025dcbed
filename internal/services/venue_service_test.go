package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVenueRequest() *models.CreateVenueRequest {
	return &models.CreateVenueRequest{
		Name:     "Kick Off Arena",
		Address:  "Road 27, Dhanmondi",
		Location: &models.GeoPoint{Coordinates: []float64{90.3742, 23.7461}},
		AvailableSlots: []models.DaySlots{
			{Date: "2026-11-02", Slots: []models.Slot{{Time: "18:00"}, {Time: "19:00"}}},
		},
	}
}

func TestCreateVenueValidatesLocation(t *testing.T) {
	ctx := context.Background()
	svc := NewVenueService(newFixture(t).repo)

	venue, err := svc.Create(ctx, "u1", newVenueRequest())
	require.NoError(t, err)
	assert.Equal(t, "Point", venue.Location.Type)
	assert.Equal(t, "u1", venue.CreatedBy)

	bad := newVenueRequest()
	bad.Location.Coordinates = []float64{200, 10}
	_, err = svc.Create(ctx, "u1", bad)
	assertKind(t, apperrors.KindValidation, err)

	bad = newVenueRequest()
	bad.Location.Coordinates = []float64{90}
	_, err = svc.Create(ctx, "u1", bad)
	assertKind(t, apperrors.KindValidation, err)

	bad = newVenueRequest()
	bad.Location.Type = "Polygon"
	_, err = svc.Create(ctx, "u1", bad)
	assertKind(t, apperrors.KindValidation, err)
}

func TestListVenuesRequiresCoordinatePair(t *testing.T) {
	ctx := context.Background()
	svc := NewVenueService(newFixture(t).repo)
	_, err := svc.Create(ctx, "u1", newVenueRequest())
	require.NoError(t, err)

	lon := 90.37
	_, err = svc.List(ctx, VenueQuery{Longitude: &lon})
	assertKind(t, apperrors.KindValidation, err)

	venues, err := svc.List(ctx, VenueQuery{Name: "kick"})
	require.NoError(t, err)
	assert.Len(t, venues, 1)

	venues, err = svc.List(ctx, VenueQuery{Name: "stadium"})
	require.NoError(t, err)
	assert.Empty(t, venues)
}

func TestBookSlotOnlyOnce(t *testing.T) {
	ctx := context.Background()
	svc := NewVenueService(newFixture(t).repo)
	venue, err := svc.Create(ctx, "u1", newVenueRequest())
	require.NoError(t, err)

	booked, err := svc.BookSlot(ctx, venue.ID.Hex(), &models.BookSlotRequest{Date: "2026-11-02", Time: "18:00"})
	require.NoError(t, err)
	assert.True(t, booked.AvailableSlots[0].Slots[0].IsBooked)
	assert.False(t, booked.AvailableSlots[0].Slots[1].IsBooked)

	_, err = svc.BookSlot(ctx, venue.ID.Hex(), &models.BookSlotRequest{Date: "2026-11-02", Time: "18:00"})
	assertKind(t, apperrors.KindConflict, err)

	_, err = svc.BookSlot(ctx, venue.ID.Hex(), &models.BookSlotRequest{Date: "2026-11-03", Time: "18:00"})
	assertKind(t, apperrors.KindConflict, err)

	_, err = svc.BookSlot(ctx, "64b7f0c2a1b2c3d4e5f60718", &models.BookSlotRequest{Date: "2026-11-02", Time: "19:00"})
	assertKind(t, apperrors.KindNotFound, err)
}

func TestProfilePatchAndSearch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewProfileService(f.repo, f.repo)

	none, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, none)

	position, skill := "Goalkeeper", models.SkillAdvanced
	profile, err := svc.PatchProfile(ctx, "u1", &models.ProfilePatch{Position: &position, SkillLevel: &skill, Availability: []string{"Mon", "Mon", "Fri"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mon", "Fri"}, profile.Availability)
	assert.True(t, profile.Notifications)

	bio := "Shot stopper"
	profile, err = svc.PatchProfile(ctx, "u1", &models.ProfilePatch{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Goalkeeper", profile.Position)
	assert.Equal(t, bio, profile.Bio)

	got, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, "Alice", got.User.Name)

	found, err := svc.SearchProfiles(ctx, "u2", "Goalkeeper", "any")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "u1", found[0].UserID)

	found, err = svc.SearchProfiles(ctx, "u1", "", "")
	require.NoError(t, err)
	assert.Empty(t, found)

	blank := " "
	_, err = svc.UpdateUser(ctx, "u1", &models.UpdateUserRequest{Name: &blank})
	assertKind(t, apperrors.KindValidation, err)
}

func TestUploadChecksLimits(t *testing.T) {
	ctx := context.Background()
	svc := NewUploadService(&memoryStore{})

	obj, err := svc.Upload(ctx, &FileUpload{Name: "team.jpg", ContentType: "image/jpeg", Size: 3, Body: bytes.NewReader([]byte("jpg"))})
	require.NoError(t, err)
	assert.Equal(t, "team.jpg", obj.Name)
	assert.Equal(t, int64(3), obj.Size)

	_, err = svc.Upload(ctx, &FileUpload{Name: "huge.jpg", ContentType: "image/jpeg", Size: storage.MaxUploadSize + 1, Body: bytes.NewReader(nil)})
	assertKind(t, apperrors.KindValidation, err)

	_, err = svc.Upload(ctx, nil)
	assertKind(t, apperrors.KindValidation, err)
}
