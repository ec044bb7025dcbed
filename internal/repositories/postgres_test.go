package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/anonto42/futsal-matcher/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestPostgresUserMalformedIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetUserByID(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := repo.GetUsersByIDs(ctx, []string{"abc", ""})
	require.NoError(t, err)
	assert.Empty(t, users)

	valid := uuid.NewString()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id IN \(\$1\)`).
		WithArgs(valid).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(valid, "Bob", "bob@example.com"))

	users, err = repo.GetUsersByIDs(ctx, []string{valid, "abc"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Bob", users[0].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetUserByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserEmailLookupIgnoresCase(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresUserRepository(db)
	id := uuid.NewString()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(id, "Alice", "alice@example.com"))

	user, err := repo.GetUserByEmail(context.Background(), "ALICE@Example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFeedbackDuplicateTriple(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresFeedbackRepository(db)

	mock.ExpectExec(`INSERT INTO "feedbacks"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"idx_feedback_triple\""})

	err := repo.CreateFeedback(context.Background(), &models.Feedback{
		MatchID:     "64b7f0c2a1b2c3d4e5f60718",
		SenderID:    uuid.NewString(),
		RecipientID: uuid.NewString(),
		Rating:      4,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFeedbackMalformedIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresFeedbackRepository(db)
	ctx := context.Background()

	exists, err := repo.FeedbackExists(ctx, "64b7f0c2a1b2c3d4e5f60718", uuid.NewString(), "abc")
	require.NoError(t, err)
	assert.False(t, exists)

	received, err := repo.GetFeedbackByRecipient(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, received)

	recipient := uuid.NewString()
	mock.ExpectQuery(`SELECT \* FROM "feedbacks" WHERE recipient_id = \$1 ORDER BY created_at DESC`).
		WithArgs(recipient).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rating"}).AddRow(uuid.NewString(), 5))

	received, err = repo.GetFeedbackByRecipient(ctx, recipient)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, 5, received[0].Rating)

	assert.NoError(t, mock.ExpectationsWereMet())
}
