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

// maxOrderRetries bounds retries when two uploads race for the same order index.
const maxOrderRetries = 3

type clipRepository struct {
	db *sqlx.DB
}

func NewClipRepository(db *sqlx.DB) repository.ClipRepository {
	return &clipRepository{db: db}
}

func (r *clipRepository) Create(ctx context.Context, clip *domain.Clip) error {
	if clip.ID == uuid.Nil {
		clip.ID = uuid.New()
	}
	query := `
		INSERT INTO editor_clips (id, editor_id, file_path, title, description, order_index)
		VALUES ($1, $2, $3, $4, $5, (SELECT COUNT(*) FROM editor_clips WHERE editor_id = $2))
		RETURNING order_index, created_at
	`
	var err error
	for attempt := 0; attempt < maxOrderRetries; attempt++ {
		err = r.db.QueryRowContext(
			ctx, query,
			clip.ID, clip.EditorID, clip.FilePath, clip.Title, clip.Description,
		).Scan(&clip.OrderIndex, &clip.CreatedAt)
		if err == nil || !isUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		return domain.Unavailable("create clip", err)
	}
	return nil
}

func (r *clipRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Clip, error) {
	var clip domain.Clip
	query := `
		SELECT id, editor_id, file_path, title, description, order_index, created_at
		FROM editor_clips WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &clip, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClipNotFound
		}
		return nil, domain.Unavailable("get clip", err)
	}
	return &clip, nil
}

func (r *clipRepository) ListByEditor(ctx context.Context, editorID uuid.UUID) ([]*domain.Clip, error) {
	var clips []*domain.Clip
	query := `
		SELECT id, editor_id, file_path, title, description, order_index, created_at
		FROM editor_clips
		WHERE editor_id = $1
		ORDER BY order_index
	`
	if err := r.db.SelectContext(ctx, &clips, query, editorID); err != nil {
		return nil, domain.Unavailable("list clips", err)
	}
	return clips, nil
}
