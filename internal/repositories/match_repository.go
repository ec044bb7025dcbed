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

// MatchStatusChange is a conditional status transition. The update applies only while
// the match is still in From.
type MatchStatusChange struct {
	From  string
	To    string
	Score *models.Score
	// ReleaseOpponent clears the opponent slot and removes that user from the players.
	ReleaseOpponent string
}

// MatchRepository defines the interface for match data operations
type MatchRepository interface {
	CreateMatch(ctx context.Context, match *models.Match) error
	GetMatchByID(ctx context.Context, id string) (*models.Match, error)
	GetMatchesByUser(ctx context.Context, userID string) ([]models.Match, error)
	SearchMatches(ctx context.Context, filter models.MatchFilter) ([]models.Match, error)
	// UpdateMatchStatus returns ErrStale when the match left change.From meanwhile.
	UpdateMatchStatus(ctx context.Context, id primitive.ObjectID, change MatchStatusChange) (*models.Match, error)
	// AddMatchOpponent and AddMatchTeammate return ErrStale when the match can no longer take userID.
	AddMatchOpponent(ctx context.Context, id primitive.ObjectID, userID string) (*models.Match, error)
	AddMatchTeammate(ctx context.Context, id primitive.ObjectID, userID string) (*models.Match, error)
}

type MongoMatchRepository struct {
	collection *mongo.Collection
}

func NewMongoMatchRepository(db *mongo.Database) *MongoMatchRepository {
	return &MongoMatchRepository{collection: db.Collection(MatchesCollection)}
}

func (r *MongoMatchRepository) CreateMatch(ctx context.Context, match *models.Match) error {
	now := time.Now()
	match.ID = primitive.NewObjectID()
	match.CreatedAt = now
	match.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, match)
	return err
}

func (r *MongoMatchRepository) GetMatchByID(ctx context.Context, id string) (*models.Match, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var match models.Match
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&match); err != nil {
		return nil, mongoErr(err)
	}
	return &match, nil
}

// GetMatchesByUser lists matches the user created, plays in or opposes, newest first.
func (r *MongoMatchRepository) GetMatchesByUser(ctx context.Context, userID string) ([]models.Match, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"created_by": userID},
		bson.M{"players": userID},
		bson.M{"opponent_id": userID},
	}}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *MongoMatchRepository) SearchMatches(ctx context.Context, f models.MatchFilter) ([]models.Match, error) {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.ExcludeUserID != "" {
		filter["created_by"] = bson.M{"$ne": f.ExcludeUserID}
	}
	if f.Location != "" {
		filter["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}
	}
	if f.MaxDistance > 0 {
		filter["distance"] = bson.M{"$lte": f.MaxDistance}
	}
	if f.From != nil && f.To != nil {
		filter["date_time"] = bson.M{"$gte": *f.From, "$lt": *f.To}
	}
	if f.TeamSize > 0 {
		filter["team_size"] = f.TeamSize
	}
	if f.IsSkillBased != nil {
		filter["is_skill_based"] = *f.IsSkillBased
	}
	if f.Position != "" {
		filter["positions_needed"] = f.Position
	}
	if f.SkillLevel != "" {
		filter["skill_level"] = f.SkillLevel
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date_time", Value: 1}})
	if f.Limit > 0 {
		findOptions.SetLimit(f.Limit)
	}
	return r.find(ctx, filter, findOptions)
}

func (r *MongoMatchRepository) UpdateMatchStatus(ctx context.Context, id primitive.ObjectID, change MatchStatusChange) (*models.Match, error) {
	set := bson.M{"status": change.To, "updated_at": time.Now()}
	if change.Score != nil {
		set["score"] = change.Score
	}
	update := bson.M{"$set": set}
	if change.ReleaseOpponent != "" {
		update["$unset"] = bson.M{"opponent_id": ""}
		update["$pull"] = bson.M{"players": change.ReleaseOpponent}
	}
	return r.conditionalUpdate(ctx, bson.M{"_id": id, "status": change.From}, update)
}

func (r *MongoMatchRepository) AddMatchOpponent(ctx context.Context, id primitive.ObjectID, userID string) (*models.Match, error) {
	filter := bson.M{
		"_id":         id,
		"type":        models.MatchTypeOpponents,
		"status":      models.MatchOpen,
		"created_by":  bson.M{"$ne": userID},
		"opponent_id": bson.M{"$exists": false},
	}
	update := bson.M{
		"$set":      bson.M{"opponent_id": userID, "status": models.MatchMatched, "updated_at": time.Now()},
		"$addToSet": bson.M{"players": userID},
	}
	return r.conditionalUpdate(ctx, filter, update)
}

// AddMatchTeammate appends userID and flips the match to matched once the team is full,
// in a single pipeline update.
func (r *MongoMatchRepository) AddMatchTeammate(ctx context.Context, id primitive.ObjectID, userID string) (*models.Match, error) {
	filter := bson.M{
		"_id":     id,
		"type":    models.MatchTypeTeammates,
		"status":  models.MatchOpen,
		"players": bson.M{"$ne": userID},
		"$expr":   bson.M{"$lt": bson.A{bson.M{"$size": "$players"}, "$team_size"}},
	}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"players":    bson.M{"$concatArrays": bson.A{"$players", bson.A{userID}}},
			"updated_at": time.Now(),
		}}},
		{{Key: "$set", Value: bson.M{
			"status": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{bson.M{"$size": "$players"}, "$team_size"}},
				models.MatchMatched,
				models.MatchOpen,
			}},
		}}},
	}
	return r.conditionalUpdate(ctx, filter, pipeline)
}

func (r *MongoMatchRepository) conditionalUpdate(ctx context.Context, filter bson.M, update interface{}) (*models.Match, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var match models.Match
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&match)
	if err == mongo.ErrNoDocuments {
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *MongoMatchRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Match, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	matches := []models.Match{}
	if err = cursor.All(ctx, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
