package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/repositories"
)

// DefaultVenueDistance is the search radius in metres when coordinates are given without one.
const DefaultVenueDistance = 10000

// VenueQuery is a parsed GET /venues request.
type VenueQuery struct {
	Name      string
	Longitude *float64
	Latitude  *float64
	Distance  float64
}

type VenueService struct {
	venues repositories.VenueRepository
}

func NewVenueService(venues repositories.VenueRepository) *VenueService {
	return &VenueService{venues: venues}
}

func (s *VenueService) List(ctx context.Context, q VenueQuery) ([]models.Venue, error) {
	filter := models.VenueFilter{Name: strings.TrimSpace(q.Name)}
	if (q.Longitude == nil) != (q.Latitude == nil) {
		return nil, apperrors.Validation("longitude and latitude must be given together")
	}
	if q.Longitude != nil {
		if err := checkCoordinates(*q.Longitude, *q.Latitude); err != nil {
			return nil, err
		}
		filter.Near = &models.GeoPoint{Type: "Point", Coordinates: []float64{*q.Longitude, *q.Latitude}}
		filter.MaxDistance = q.Distance
		if filter.MaxDistance <= 0 {
			filter.MaxDistance = DefaultVenueDistance
		}
	}

	venues, err := s.venues.FindVenues(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return venues, nil
}

func (s *VenueService) Create(ctx context.Context, userID string, req *models.CreateVenueRequest) (*models.Venue, error) {
	if req.Location != nil {
		if req.Location.Type == "" {
			req.Location.Type = "Point"
		}
		if req.Location.Type != "Point" {
			return nil, apperrors.Validation("location.type must be Point")
		}
		if len(req.Location.Coordinates) != 2 {
			return nil, apperrors.Validation("location.coordinates must contain exactly 2 items")
		}
		if err := checkCoordinates(req.Location.Coordinates[0], req.Location.Coordinates[1]); err != nil {
			return nil, err
		}
	}
	for _, day := range req.AvailableSlots {
		if day.Date == "" {
			return nil, apperrors.Validation("available_slots.date is required")
		}
	}

	venue := &models.Venue{
		Name:           strings.TrimSpace(req.Name),
		Address:        strings.TrimSpace(req.Address),
		Location:       req.Location,
		Description:    req.Description,
		Amenities:      unique(req.Amenities),
		OpeningHours:   req.OpeningHours,
		Rating:         req.Rating,
		Price:          req.Price,
		AvailableSlots: req.AvailableSlots,
		CreatedBy:      userID,
	}
	if venue.AvailableSlots == nil {
		venue.AvailableSlots = []models.DaySlots{}
	}
	if err := s.venues.CreateVenue(ctx, venue); err != nil {
		return nil, apperrors.Internal(err)
	}
	return venue, nil
}

// BookSlot reserves a free slot of a venue.
func (s *VenueService) BookSlot(ctx context.Context, venueID string, req *models.BookSlotRequest) (*models.Venue, error) {
	venue, err := s.venues.GetVenueByID(ctx, venueID)
	if err != nil {
		return nil, lookupErr(err, "Venue not found")
	}
	booked, err := s.venues.BookVenueSlot(ctx, venue.ID, req.Date, req.Time)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, apperrors.NotFound("Venue not found")
	case errors.Is(err, repositories.ErrStale):
		return nil, apperrors.Conflict("Slot is not available")
	case err != nil:
		return nil, apperrors.Internal(err)
	}
	return booked, nil
}

func checkCoordinates(lon, lat float64) error {
	if lon < -180 || lon > 180 {
		return apperrors.Validation("longitude must be between -180 and 180")
	}
	if lat < -90 || lat > 90 {
		return apperrors.Validation("latitude must be between -90 and 90")
	}
	return nil
}
