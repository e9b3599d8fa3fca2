package repository

import (
	"context"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// CreateWithSession stores a new user and its first session atomically.
	// session.UserID is set from the created user.
	CreateWithSession(ctx context.Context, user *domain.User, session *domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteByToken(ctx context.Context, tokenHash string) error
}
