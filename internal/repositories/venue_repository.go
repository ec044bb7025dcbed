package repositories

import (
	"context"
	"regexp"
	"time"

	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VenueRepository defines the interface for venue data operations
type VenueRepository interface {
	CreateVenue(ctx context.Context, venue *models.Venue) error
	GetVenueByID(ctx context.Context, id string) (*models.Venue, error)
	FindVenues(ctx context.Context, filter models.VenueFilter) ([]models.Venue, error)
	// BookVenueSlot marks a free slot booked. ErrNotFound for an unknown venue,
	// ErrStale when the slot does not exist or is already booked.
	BookVenueSlot(ctx context.Context, id primitive.ObjectID, date, slotTime string) (*models.Venue, error)
}

type MongoVenueRepository struct {
	collection *mongo.Collection
}

func NewMongoVenueRepository(db *mongo.Database) *MongoVenueRepository {
	return &MongoVenueRepository{collection: db.Collection(VenuesCollection)}
}

func (r *MongoVenueRepository) CreateVenue(ctx context.Context, venue *models.Venue) error {
	now := time.Now()
	venue.ID = primitive.NewObjectID()
	venue.CreatedAt = now
	venue.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, venue)
	return err
}

func (r *MongoVenueRepository) GetVenueByID(ctx context.Context, id string) (*models.Venue, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var venue models.Venue
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&venue); err != nil {
		return nil, mongoErr(err)
	}
	return &venue, nil
}

// FindVenues filters by name substring and, when Near is set, by distance in metres.
// Results near a point come back nearest first.
func (r *MongoVenueRepository) FindVenues(ctx context.Context, f models.VenueFilter) ([]models.Venue, error) {
	filter := bson.M{}
	if f.Name != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Name), Options: "i"}
	}
	findOptions := options.Find()
	if f.Near != nil {
		filter["location"] = bson.M{"$nearSphere": bson.M{
			"$geometry":    f.Near,
			"$maxDistance": f.MaxDistance,
		}}
	} else {
		findOptions.SetSort(bson.D{{Key: "name", Value: 1}})
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	venues := []models.Venue{}
	if err = cursor.All(ctx, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

func (r *MongoVenueRepository) BookVenueSlot(ctx context.Context, id primitive.ObjectID, date, slotTime string) (*models.Venue, error) {
	filter := bson.M{
		"_id": id,
		"available_slots": bson.M{"$elemMatch": bson.M{
			"date":  date,
			"slots": bson.M{"$elemMatch": bson.M{"time": slotTime, "is_booked": false}},
		}},
	}
	update := bson.M{"$set": bson.M{
		"available_slots.$[day].slots.$[slot].is_booked": true,
		"updated_at": time.Now(),
	}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
			bson.M{"day.date": date},
			bson.M{"slot.time": slotTime, "slot.is_booked": false},
		}})

	var venue models.Venue
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&venue)
	if err == nil {
		return &venue, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrStale
}
