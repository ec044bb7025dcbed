package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/middleware"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type VenueHandler struct {
	venues *services.VenueService
}

func NewVenueHandler(venues *services.VenueService) *VenueHandler {
	return &VenueHandler{venues: venues}
}

func (h *VenueHandler) RegisterVenueRoutes(g *echo.Group) {
	g.GET("/venues", h.GetVenues)
	g.POST("/venues", h.CreateVenue)
	g.POST("/venues/:id/book", h.BookSlot)
}

// GetVenues lists venues: ?name=&longitude=&latitude=&distance= (metres)
func (h *VenueHandler) GetVenues(c echo.Context) error {
	q := services.VenueQuery{Name: c.QueryParam("name")}
	var err error
	if q.Longitude, err = queryFloat(c, "longitude"); err != nil {
		return err
	}
	if q.Latitude, err = queryFloat(c, "latitude"); err != nil {
		return err
	}
	distance, err := queryFloat(c, "distance")
	if err != nil {
		return err
	}
	if distance != nil {
		q.Distance = *distance
	}

	venues, err := h.venues.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, venues)
}

func (h *VenueHandler) CreateVenue(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.CreateVenueRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	venue, err := h.venues.Create(c.Request().Context(), userID, &req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, venue)
}

// BookSlot reserves one free time slot
func (h *VenueHandler) BookSlot(c echo.Context) error {
	var req models.BookSlotRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	venue, err := h.venues.BookSlot(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, venue)
}

func queryFloat(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.Validation(name + " must be a number")
	}
	return &v, nil
}
