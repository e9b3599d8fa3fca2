package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// queryRower is satisfied by *sqlx.DB and *sqlx.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertUser(ctx context.Context, q queryRower, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	query := `
		INSERT INTO users (id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := q.QueryRowContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.Role).
		Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return domain.Unavailable("create user", err)
	}
	return nil
}

func insertSession(ctx context.Context, q queryRower, session *domain.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	query := `
		INSERT INTO sessions (id, user_id, token_hash, device_info, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := q.QueryRowContext(
		ctx, query,
		session.ID, session.UserID, session.TokenHash,
		session.DeviceInfo, session.IPAddress, session.ExpiresAt,
	).Scan(&session.CreatedAt)
	if err != nil {
		return domain.Unavailable("create session", err)
	}
	return nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return insertUser(ctx, r.db, user)
}

// CreateWithSession inserts the user and its first session in one transaction.
func (r *userRepository) CreateWithSession(ctx context.Context, user *domain.User, session *domain.Session) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Unavailable("begin create user", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertUser(ctx, tx, user); err != nil {
		return err
	}
	session.UserID = user.ID
	if err := insertSession(ctx, tx, session); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.Unavailable("commit create user", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, role, created_at FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, role, created_at FROM users WHERE email = $1`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Unavailable("get user", err)
	}
	return &user, nil
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	return insertSession(ctx, r.db, session)
}

func (r *sessionRepository) GetByToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var session domain.Session
	query := `
		SELECT id, user_id, token_hash, device_info, ip_address, expires_at, created_at
		FROM sessions WHERE token_hash = $1
	`
	if err := r.db.GetContext(ctx, &session, query, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, domain.Unavailable("get session", err)
	}
	return &session, nil
}

func (r *sessionRepository) DeleteByToken(ctx context.Context, tokenHash string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return domain.Unavailable("delete session", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Unavailable("delete session", err)
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
