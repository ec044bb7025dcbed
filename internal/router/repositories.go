package router

import (
	"context"
	"fmt"

	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/anonto42/futsal-matcher/backend/internal/repositories"
	"github.com/anonto42/futsal-matcher/backend/pkg/config"
)

// Repositories bundles every store the services depend on.
type Repositories struct {
	Users         repositories.UserRepository
	Feedback      repositories.FeedbackRepository
	Chats         repositories.ChatRepository
	Messages      repositories.MessageRepository
	Notifications repositories.NotificationRepository
	Matches       repositories.MatchRepository
	Profiles      repositories.ProfileRepository
	Venues        repositories.VenueRepository
}

// NewDatabaseRepositories migrates the PostgreSQL tables, creates the MongoDB indexes
// and returns repositories backed by db.
func NewDatabaseRepositories(ctx context.Context, db *config.DB, mongoDatabase string) (*Repositories, error) {
	if err := db.Postgres.AutoMigrate(&models.User{}, &models.Feedback{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	mongoDB := db.Mongo.Database(mongoDatabase)
	if err := repositories.EnsureIndexes(ctx, mongoDB); err != nil {
		return nil, err
	}

	return &Repositories{
		Users:         repositories.NewPostgresUserRepository(db.Postgres),
		Feedback:      repositories.NewPostgresFeedbackRepository(db.Postgres),
		Chats:         repositories.NewMongoChatRepository(mongoDB),
		Messages:      repositories.NewMongoMessageRepository(mongoDB),
		Notifications: repositories.NewMongoNotificationRepository(mongoDB),
		Matches:       repositories.NewMongoMatchRepository(mongoDB),
		Profiles:      repositories.NewMongoProfileRepository(mongoDB),
		Venues:        repositories.NewMongoVenueRepository(mongoDB),
	}, nil
}

// NewMemoryRepositories returns repositories sharing one in-process store.
func NewMemoryRepositories() *Repositories {
	m := repositories.NewMemory()
	return &Repositories{
		Users:         m,
		Feedback:      m,
		Chats:         m,
		Messages:      m,
		Notifications: m,
		Matches:       m,
		Profiles:      m,
		Venues:        m,
	}
}
