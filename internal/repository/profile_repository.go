package repository

import (
	"context"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/google/uuid"
)

type CreatorRepository interface {
	Create(ctx context.Context, creator *domain.CreatorProfile) error
	Update(ctx context.Context, creator *domain.CreatorProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CreatorProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.CreatorProfile, error)
}

// EditorRepository loads editors with their tags attached.
type EditorRepository interface {
	Create(ctx context.Context, editor *domain.EditorProfile) error
	// Update replaces the editor's fields and its full tag set.
	Update(ctx context.Context, editor *domain.EditorProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EditorProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.EditorProfile, error)
	GetTags(ctx context.Context, editorID uuid.UUID) ([]domain.EditorTag, error)
	ListByContentType(ctx context.Context, contentType string) ([]*domain.EditorProfile, error)
}

type ClipRepository interface {
	// Create assigns the next order index for the editor.
	Create(ctx context.Context, clip *domain.Clip) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Clip, error)
	ListByEditor(ctx context.Context, editorID uuid.UUID) ([]*domain.Clip, error)
}
