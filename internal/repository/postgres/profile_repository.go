package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type creatorRepository struct {
	db *sqlx.DB
}

func NewCreatorRepository(db *sqlx.DB) repository.CreatorRepository {
	return &creatorRepository{db: db}
}

const creatorColumns = `id, user_id, display_name, bio, what_stream, want_editor,
	content_type, preferred_styles, created_at, updated_at`

func scanCreator(row scanner) (*domain.CreatorProfile, error) {
	var c domain.CreatorProfile
	err := row.Scan(
		&c.ID, &c.UserID, &c.DisplayName, &c.Bio, &c.WhatStream, &c.WantEditor,
		&c.ContentType, pq.Array(&c.PreferredStyles), &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *creatorRepository) Create(ctx context.Context, creator *domain.CreatorProfile) error {
	if creator.ID == uuid.Nil {
		creator.ID = uuid.New()
	}
	query := `
		INSERT INTO creators (
			id, user_id, display_name, bio, what_stream, want_editor,
			content_type, preferred_styles
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		creator.ID, creator.UserID, creator.DisplayName, creator.Bio,
		creator.WhatStream, creator.WantEditor, creator.ContentType,
		textArray(creator.PreferredStyles),
	).Scan(&creator.CreatedAt, &creator.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrProfileAlreadyExists
		}
		return domain.Unavailable("create creator", err)
	}
	return nil
}

func (r *creatorRepository) Update(ctx context.Context, creator *domain.CreatorProfile) error {
	query := `
		UPDATE creators
		SET display_name = $1, bio = $2, what_stream = $3, want_editor = $4,
		    content_type = $5, preferred_styles = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		creator.DisplayName, creator.Bio, creator.WhatStream, creator.WantEditor,
		creator.ContentType, textArray(creator.PreferredStyles), creator.ID,
	).Scan(&creator.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrCreatorNotFound
		}
		return domain.Unavailable("update creator", err)
	}
	return nil
}

func (r *creatorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CreatorProfile, error) {
	return r.getOne(ctx, `SELECT `+creatorColumns+` FROM creators WHERE id = $1`, id)
}

func (r *creatorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.CreatorProfile, error) {
	return r.getOne(ctx, `SELECT `+creatorColumns+` FROM creators WHERE user_id = $1`, userID)
}

func (r *creatorRepository) getOne(ctx context.Context, query string, arg any) (*domain.CreatorProfile, error) {
	c, err := scanCreator(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCreatorNotFound
		}
		return nil, domain.Unavailable("get creator", err)
	}
	return c, nil
}

type editorRepository struct {
	db *sqlx.DB
}

func NewEditorRepository(db *sqlx.DB) repository.EditorRepository {
	return &editorRepository{db: db}
}

const editorColumns = `e.id, e.user_id, e.anonymous_name, e.real_name, e.bio,
	e.availability, e.created_at, e.updated_at`

type editorTagRow struct {
	EditorID uuid.UUID      `db:"editor_id"`
	Name     string         `db:"tag_name"`
	Type     domain.TagType `db:"tag_type"`
}

func (r *editorRepository) Create(ctx context.Context, editor *domain.EditorProfile) error {
	if editor.ID == uuid.Nil {
		editor.ID = uuid.New()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Unavailable("begin create editor", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO editors (id, user_id, anonymous_name, real_name, bio, availability)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRowContext(
		ctx, query,
		editor.ID, editor.UserID, editor.AnonymousName, editor.RealName,
		editor.Bio, editor.Availability,
	).Scan(&editor.CreatedAt, &editor.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrProfileAlreadyExists
		}
		return domain.Unavailable("create editor", err)
	}

	if err := insertEditorTags(ctx, tx, editor.ID, editor.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.Unavailable("commit editor", err)
	}
	return nil
}

func (r *editorRepository) Update(ctx context.Context, editor *domain.EditorProfile) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Unavailable("begin update editor", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		UPDATE editors
		SET anonymous_name = $1, real_name = $2, bio = $3, availability = $4,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING updated_at
	`
	err = tx.QueryRowContext(
		ctx, query,
		editor.AnonymousName, editor.RealName, editor.Bio, editor.Availability, editor.ID,
	).Scan(&editor.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEditorNotFound
		}
		return domain.Unavailable("update editor", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM editor_tags WHERE editor_id = $1`, editor.ID); err != nil {
		return domain.Unavailable("clear editor tags", err)
	}
	if err := insertEditorTags(ctx, tx, editor.ID, editor.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.Unavailable("commit editor", err)
	}
	return nil
}

func insertEditorTags(ctx context.Context, tx *sqlx.Tx, editorID uuid.UUID, tags []domain.EditorTag) error {
	query := `
		INSERT INTO editor_tags (editor_id, tag_name, tag_type)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, query, editorID, tag.Name, tag.Type); err != nil {
			return domain.Unavailable("insert editor tag", err)
		}
	}
	return nil
}

func (r *editorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EditorProfile, error) {
	return r.getOne(ctx, `SELECT `+editorColumns+` FROM editors e WHERE e.id = $1`, id)
}

func (r *editorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.EditorProfile, error) {
	return r.getOne(ctx, `SELECT `+editorColumns+` FROM editors e WHERE e.user_id = $1`, userID)
}

func (r *editorRepository) getOne(ctx context.Context, query string, arg any) (*domain.EditorProfile, error) {
	var editor domain.EditorProfile
	if err := r.db.GetContext(ctx, &editor, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEditorNotFound
		}
		return nil, domain.Unavailable("get editor", err)
	}

	tags, err := r.GetTags(ctx, editor.ID)
	if err != nil {
		return nil, err
	}
	editor.Tags = tags
	return &editor, nil
}

func (r *editorRepository) GetTags(ctx context.Context, editorID uuid.UUID) ([]domain.EditorTag, error) {
	var tags []domain.EditorTag
	query := `SELECT tag_name, tag_type FROM editor_tags WHERE editor_id = $1 ORDER BY tag_type, tag_name`
	if err := r.db.SelectContext(ctx, &tags, query, editorID); err != nil {
		return nil, domain.Unavailable("get editor tags", err)
	}
	return tags, nil
}

func (r *editorRepository) ListByContentType(ctx context.Context, contentType string) ([]*domain.EditorProfile, error) {
	var editors []*domain.EditorProfile
	query := `
		SELECT ` + editorColumns + `
		FROM editors e
		JOIN editor_tags t ON t.editor_id = e.id
		WHERE t.tag_type = $1 AND t.tag_name = $2
		ORDER BY e.created_at
	`
	if err := r.db.SelectContext(ctx, &editors, query, domain.TagTypeContentType, contentType); err != nil {
		return nil, domain.Unavailable("list editors by content type", err)
	}
	if len(editors) == 0 {
		return editors, nil
	}

	ids := make([]string, len(editors))
	byID := make(map[uuid.UUID]*domain.EditorProfile, len(editors))
	for i, e := range editors {
		ids[i] = e.ID.String()
		byID[e.ID] = e
	}

	var rows []editorTagRow
	tagQuery := `
		SELECT editor_id, tag_name, tag_type
		FROM editor_tags
		WHERE editor_id = ANY($1::uuid[])
		ORDER BY tag_type, tag_name
	`
	if err := r.db.SelectContext(ctx, &rows, tagQuery, pq.Array(ids)); err != nil {
		return nil, domain.Unavailable("list editor tags", err)
	}
	for _, row := range rows {
		if e, ok := byID[row.EditorID]; ok {
			e.Tags = append(e.Tags, domain.EditorTag{Name: row.Name, Type: row.Type})
		}
	}
	return editors, nil
}
