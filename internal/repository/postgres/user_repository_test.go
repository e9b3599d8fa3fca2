package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserWithSession() (*domain.User, *domain.Session) {
	user := &domain.User{Email: "new@example.com", PasswordHash: "hash", Role: domain.RoleCreator}
	session := &domain.Session{TokenHash: "token-hash", ExpiresAt: time.Now().Add(time.Hour)}
	return user, session
}

func TestUserRepository_CreateWithSessionCommits(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	user, session := newUserWithSession()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(sqlmock.AnyArg(), user.Email, user.PasswordHash, string(user.Role)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO sessions`)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()

	err := repo.CreateWithSession(context.Background(), user, session)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, user.ID, session.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateWithSessionRollsBackOnSessionFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	user, session := newUserWithSession()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO sessions`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.CreateWithSession(context.Background(), user, session)
	assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateWithSessionDuplicateEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	user, session := newUserWithSession()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.CreateWithSession(context.Background(), user, session)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmailNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at"}))

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
