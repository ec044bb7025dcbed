package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeoPoint is a GeoJSON point: coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

type Slot struct {
	Time     string `json:"time" bson:"time"`
	IsBooked bool   `json:"is_booked" bson:"is_booked"`
}

// DaySlots lists the hourly slots of one date ("2006-01-02").
type DaySlots struct {
	Date  string `json:"date" bson:"date"`
	Slots []Slot `json:"slots" bson:"slots"`
}

// Venue is a bookable pitch (MongoDB, 2dsphere index on location).
type Venue struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Address        string             `json:"address" bson:"address"`
	Location       *GeoPoint          `json:"location,omitempty" bson:"location,omitempty"`
	Description    string             `json:"description,omitempty" bson:"description,omitempty"`
	Amenities      []string           `json:"amenities" bson:"amenities"`
	OpeningHours   string             `json:"opening_hours,omitempty" bson:"opening_hours,omitempty"`
	Rating         float64            `json:"rating" bson:"rating"`
	Price          float64            `json:"price" bson:"price"`
	AvailableSlots []DaySlots         `json:"available_slots" bson:"available_slots"`
	CreatedBy      string             `json:"created_by" bson:"created_by"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

type CreateVenueRequest struct {
	Name           string     `json:"name" validate:"notblank,max=200"`
	Address        string     `json:"address" validate:"notblank,max=300"`
	Location       *GeoPoint  `json:"location"`
	Description    string     `json:"description" validate:"max=2000"`
	Amenities      []string   `json:"amenities" validate:"dive,required"`
	OpeningHours   string     `json:"opening_hours" validate:"max=200"`
	Rating         float64    `json:"rating" validate:"gte=0,lte=5"`
	Price          float64    `json:"price" validate:"gte=0"`
	AvailableSlots []DaySlots `json:"available_slots"`
}

// VenueFilter narrows GET /venues. Near is nil when no coordinates were given.
type VenueFilter struct {
	Name        string
	Near        *GeoPoint
	MaxDistance float64
}

type BookSlotRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required"`
}
