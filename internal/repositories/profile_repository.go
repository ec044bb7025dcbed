package repositories

import (
	"context"
	"time"

	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, userID string, patch *models.ProfilePatch) (*models.Profile, error)
	SearchProfiles(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, error)
}

type MongoProfileRepository struct {
	collection *mongo.Collection
}

func NewMongoProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{collection: db.Collection(ProfilesCollection)}
}

func (r *MongoProfileRepository) GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile); err != nil {
		return nil, mongoErr(err)
	}
	return &profile, nil
}

func (r *MongoProfileRepository) UpsertProfile(ctx context.Context, userID string, patch *models.ProfilePatch) (*models.Profile, error) {
	now := time.Now()
	set := bson.M{"updated_at": now}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.Position != nil {
		set["position"] = *patch.Position
	}
	if patch.SkillLevel != nil {
		set["skill_level"] = *patch.SkillLevel
	}
	if patch.Availability != nil {
		set["availability"] = patch.Availability
	}
	if patch.ProfileImage != nil {
		set["profile_image"] = *patch.ProfileImage
	}
	if patch.Notifications != nil {
		set["notifications"] = *patch.Notifications
	}

	setOnInsert := bson.M{"created_at": now}
	if patch.Notifications == nil {
		setOnInsert["notifications"] = true
	}
	update := bson.M{"$set": set, "$setOnInsert": setOnInsert}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var profile models.Profile
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&profile); err != nil {
		return nil, mongoErr(err)
	}
	return &profile, nil
}

func (r *MongoProfileRepository) SearchProfiles(ctx context.Context, f models.ProfileFilter) ([]models.Profile, error) {
	filter := bson.M{}
	if f.ExcludeUserID != "" {
		filter["user_id"] = bson.M{"$ne": f.ExcludeUserID}
	}
	if f.Position != "" {
		filter["position"] = f.Position
	}
	if f.SkillLevel != "" {
		filter["skill_level"] = f.SkillLevel
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	profiles := []models.Profile{}
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}
