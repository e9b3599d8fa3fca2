package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const matchRequestColumns = `id, creator_id, editor_id, clip_id, status,
	creator_liked_at, editor_accepted_at, final_matched_at,
	match_explanation, icebreakers, created_at, updated_at`

type matchRequestRepository struct {
	db *sqlx.DB
}

func NewMatchRequestRepository(db *sqlx.DB) repository.MatchRequestRepository {
	return &matchRequestRepository{db: db}
}

func scanMatchRequest(row scanner) (*domain.MatchRequest, error) {
	var m domain.MatchRequest
	err := row.Scan(
		&m.ID, &m.CreatorID, &m.EditorID, &m.ClipID, &m.Status,
		&m.CreatorLikedAt, &m.EditorAcceptedAt, &m.FinalMatchedAt,
		&m.Explanation, pq.Array(&m.Icebreakers), &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *matchRequestRepository) Create(ctx context.Context, req *domain.MatchRequest, history *domain.FeedHistory) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Unavailable("begin create match request", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO match_requests (
			id, creator_id, editor_id, clip_id, status,
			creator_liked_at, icebreakers, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`
	_, err = tx.ExecContext(ctx, query,
		req.ID, req.CreatorID, req.EditorID, req.ClipID, req.Status,
		req.CreatorLikedAt, textArray(req.Icebreakers), req.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRequestExists
		}
		return domain.Unavailable("insert match request", err)
	}

	if history != nil {
		if err := insertFeedHistory(ctx, tx, history); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Unavailable("commit match request", err)
	}
	return nil
}

func (r *matchRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MatchRequest, error) {
	query := `SELECT ` + matchRequestColumns + ` FROM match_requests WHERE id = $1`
	m, err := scanMatchRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchRequestNotFound
		}
		return nil, domain.Unavailable("get match request", err)
	}
	return m, nil
}

func (r *matchRequestRepository) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, from, to domain.MatchStatus, at time.Time) (bool, error) {
	query := `
		UPDATE match_requests
		SET status = $3::text,
		    editor_accepted_at = CASE WHEN $3::text = 'accepted' THEN $4::timestamptz ELSE editor_accepted_at END,
		    final_matched_at = CASE WHEN $3::text = 'matched' THEN $4::timestamptz ELSE final_matched_at END,
		    updated_at = $4::timestamptz
		WHERE id = $1 AND status = $2
	`
	result, err := r.db.ExecContext(ctx, query, id, from, to, at)
	if err != nil {
		return false, domain.Unavailable("update match request status", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, domain.Unavailable("update match request status", err)
	}
	return rows == 1, nil
}

func (r *matchRequestRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, statuses ...domain.MatchStatus) ([]*domain.MatchRequest, error) {
	return r.list(ctx, "creator_id", creatorID, statuses)
}

func (r *matchRequestRepository) ListByEditor(ctx context.Context, editorID uuid.UUID, statuses ...domain.MatchStatus) ([]*domain.MatchRequest, error) {
	return r.list(ctx, "editor_id", editorID, statuses)
}

func (r *matchRequestRepository) list(ctx context.Context, column string, id uuid.UUID, statuses []domain.MatchStatus) ([]*domain.MatchRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM match_requests WHERE %s = $1`, matchRequestColumns, column)
	args := []any{id}
	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = string(s)
		}
		query += ` AND status = ANY($2)`
		args = append(args, pq.Array(names))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.Unavailable("list match requests", err)
	}
	defer rows.Close()

	var requests []*domain.MatchRequest
	for rows.Next() {
		m, err := scanMatchRequest(rows)
		if err != nil {
			return nil, domain.Unavailable("scan match request", err)
		}
		requests = append(requests, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("list match requests", err)
	}
	return requests, nil
}

func (r *matchRequestRepository) EditorIDsByCreator(ctx context.Context, creatorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT editor_id FROM match_requests WHERE creator_id = $1`
	if err := r.db.SelectContext(ctx, &ids, query, creatorID); err != nil {
		return nil, domain.Unavailable("list requested editors", err)
	}
	return ids, nil
}

func (r *matchRequestRepository) UpdateAIFields(ctx context.Context, id uuid.UUID, explanation string, icebreakers []string) error {
	query := `
		UPDATE match_requests
		SET match_explanation = $1, icebreakers = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, explanation, textArray(icebreakers), id)
	if err != nil {
		return domain.Unavailable("update match ai fields", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Unavailable("update match ai fields", err)
	}
	if rows == 0 {
		return domain.ErrMatchRequestNotFound
	}
	return nil
}

type feedHistoryRepository struct {
	db *sqlx.DB
}

func NewFeedHistoryRepository(db *sqlx.DB) repository.FeedHistoryRepository {
	return &feedHistoryRepository{db: db}
}

func insertFeedHistory(ctx context.Context, ext sqlx.ExecerContext, h *domain.FeedHistory) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	query := `
		INSERT INTO feed_history (id, creator_id, editor_id, clip_id, action, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := ext.ExecContext(ctx, query, h.ID, h.CreatorID, h.EditorID, h.ClipID, h.Action, h.CreatedAt); err != nil {
		return domain.Unavailable("insert feed history", err)
	}
	return nil
}

func (r *feedHistoryRepository) Create(ctx context.Context, history *domain.FeedHistory) error {
	return insertFeedHistory(ctx, r.db, history)
}

func (r *feedHistoryRepository) EditorIDsByCreator(ctx context.Context, creatorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT DISTINCT editor_id FROM feed_history WHERE creator_id = $1`
	if err := r.db.SelectContext(ctx, &ids, query, creatorID); err != nil {
		return nil, domain.Unavailable("list feed history", err)
	}
	return ids, nil
}
