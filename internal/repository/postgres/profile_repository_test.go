package postgres

import (
	"context"
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

func TestCreatorRepository_GetByUserID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCreatorRepository(db)
	id, userID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM creators WHERE user_id = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "display_name", "bio", "what_stream", "want_editor",
			"content_type", "preferred_styles", "created_at", "updated_at",
		}).AddRow(id.String(), userID.String(), "C1", "", "block building", "short clips",
			"Minecraft", "{Cinematic,VFX}", now, now))

	creator, err := repo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, id, creator.ID)
	assert.Equal(t, "Minecraft", creator.ContentType)
	assert.Equal(t, []string{"Cinematic", "VFX"}, creator.PreferredStyles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatorRepository_CreateDuplicateUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCreatorRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO creators`)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &domain.CreatorProfile{UserID: uuid.New(), DisplayName: "C1", ContentType: "IRL"})
	assert.ErrorIs(t, err, domain.ErrProfileAlreadyExists)
}

func TestEditorRepository_CreateInsertsTags(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEditorRepository(db)
	now := time.Now()

	editor := &domain.EditorProfile{
		UserID:        uuid.New(),
		AnonymousName: "Editor #1",
		RealName:      "Jane Doe",
		Tags:          domain.BuildEditorTags([]string{"Minecraft"}, []string{"Cinematic"}),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO editors`)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO editor_tags`)).
		WithArgs(sqlmock.AnyArg(), "Minecraft", domain.TagTypeContentType).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO editor_tags`)).
		WithArgs(sqlmock.AnyArg(), "Cinematic", domain.TagTypeStyle).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), editor))
	assert.NotEqual(t, uuid.Nil, editor.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditorRepository_ListByContentTypeAttachesTags(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEditorRepository(db)
	e1, e2 := uuid.New(), uuid.New()
	now := time.Now()

	editorCols := []string{"id", "user_id", "anonymous_name", "real_name", "bio", "availability", "created_at", "updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta(`JOIN editor_tags t ON t.editor_id = e.id`)).
		WithArgs(domain.TagTypeContentType, "Minecraft").
		WillReturnRows(sqlmock.NewRows(editorCols).
			AddRow(e1.String(), uuid.NewString(), "E1", "Real One", "", "", now, now).
			AddRow(e2.String(), uuid.NewString(), "E2", "Real Two", "", "", now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE editor_id = ANY($1::uuid[])`)).
		WillReturnRows(sqlmock.NewRows([]string{"editor_id", "tag_name", "tag_type"}).
			AddRow(e1.String(), "Minecraft", "content_type").
			AddRow(e1.String(), "Cinematic", "style").
			AddRow(e2.String(), "Minecraft", "content_type"))

	editors, err := repo.ListByContentType(context.Background(), "Minecraft")
	require.NoError(t, err)
	require.Len(t, editors, 2)
	assert.Equal(t, []string{"Cinematic"}, editors[0].TagsOfType(domain.TagTypeStyle))
	assert.Empty(t, editors[1].TagsOfType(domain.TagTypeStyle))
	assert.True(t, editors[1].HasContentType("Minecraft"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditorRepository_GetByIDNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEditorRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM editors e WHERE e.id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrEditorNotFound)
}

func TestClipRepository_CreateAssignsOrderIndex(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewClipRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO editor_clips`)).
		WillReturnRows(sqlmock.NewRows([]string{"order_index", "created_at"}).AddRow(2, time.Now()))

	clip := &domain.Clip{EditorID: uuid.New(), FilePath: "clips/a.mp4"}
	require.NoError(t, repo.Create(context.Background(), clip))
	assert.Equal(t, 2, clip.OrderIndex)
	assert.NoError(t, mock.ExpectationsWereMet())
}
