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

var matchRequestRowColumns = []string{
	"id", "creator_id", "editor_id", "clip_id", "status",
	"creator_liked_at", "editor_accepted_at", "final_matched_at",
	"match_explanation", "icebreakers", "created_at", "updated_at",
}

func TestMatchRequestRepository_CreateWritesHistoryInSameTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRequestRepository(db)
	now := time.Now()

	req := &domain.MatchRequest{
		CreatorID:      uuid.New(),
		EditorID:       uuid.New(),
		Status:         domain.StatusPending,
		CreatorLikedAt: now,
		CreatedAt:      now,
	}
	history := &domain.FeedHistory{CreatorID: req.CreatorID, EditorID: req.EditorID, Action: domain.FeedActionLiked, CreatedAt: now}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO match_requests`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO feed_history`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), req, history)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, req.ID)
	assert.NotEqual(t, uuid.Nil, history.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRequestRepository_CreateDuplicatePairIsConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO match_requests`)).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &domain.MatchRequest{Status: domain.StatusPending}, &domain.FeedHistory{})
	assert.ErrorIs(t, err, domain.ErrRequestExists)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRequestRepository_CreateHistoryFailureRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO match_requests`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO feed_history`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &domain.MatchRequest{Status: domain.StatusPending}, &domain.FeedHistory{})
	assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRequestRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRequestRepository(db)
	id, creatorID, editorID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM match_requests WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(matchRequestRowColumns).AddRow(
			id.String(), creatorID.String(), editorID.String(), nil, "accepted",
			now, now, nil,
			"You both love Minecraft", "{\"Hi there\",\"Nice clip\"}", now, now,
		))

	m, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, m.ID)
	assert.Equal(t, creatorID, m.CreatorID)
	assert.Equal(t, domain.StatusAccepted, m.Status)
	assert.Nil(t, m.ClipID)
	require.NotNil(t, m.EditorAcceptedAt)
	assert.Nil(t, m.FinalMatchedAt)
	assert.Equal(t, []string{"Hi there", "Nice clip"}, m.Icebreakers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRequestRepository_GetByIDReadsLegacyConfirmedAsMatched(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRequestRepository(db)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM match_requests WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(matchRequestRowColumns).AddRow(
			id.String(), uuid.NewString(), uuid.NewString(), nil, "confirmed",
			now, now, now, nil, "{}", now, now,
		))

	m, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMatched, m.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRequestRepository_GetByIDNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRequestRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM match_requests WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(matchRequestRowColumns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrMatchRequestNotFound)
}

func TestMatchRequestRepository_GetByIDDriverErrorIsUnavailable(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRequestRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM match_requests WHERE id = $1`)).
		WillReturnError(errors.New("dial tcp: connection refused"))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))
}

func TestMatchRequestRepository_CompareAndSwapStatus(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"winner", 1, true},
		{"lost race", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewMatchRequestRepository(db)
			id := uuid.New()
			at := time.Now()

			mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $1 AND status = $2`)).
				WithArgs(id, domain.StatusPending, domain.StatusAccepted, at).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := repo.CompareAndSwapStatus(context.Background(), id, domain.StatusPending, domain.StatusAccepted, at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMatchRequestRepository_ListByEditorFiltersStatuses(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRequestRepository(db)
	editorID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE editor_id = $1 AND status = ANY($2) ORDER BY created_at DESC`)).
		WithArgs(editorID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(matchRequestRowColumns).
			AddRow(uuid.NewString(), uuid.NewString(), editorID.String(), nil, "pending", now, nil, nil, nil, "{}", now, now).
			AddRow(uuid.NewString(), uuid.NewString(), editorID.String(), nil, "accepted", now, now, nil, nil, "{}", now, now))

	requests, err := repo.ListByEditor(context.Background(), editorID, domain.StatusPending, domain.StatusAccepted)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, domain.StatusPending, requests[0].Status)
	assert.Equal(t, domain.StatusAccepted, requests[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRequestRepository_UpdateAIFieldsMissingRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMatchRequestRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE match_requests`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateAIFields(context.Background(), uuid.New(), "explanation", []string{"hi"})
	assert.ErrorIs(t, err, domain.ErrMatchRequestNotFound)
}

func TestFeedHistoryRepository_EditorIDsByCreator(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFeedHistoryRepository(db)
	creatorID := uuid.New()
	e1, e2 := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT editor_id FROM feed_history WHERE creator_id = $1`)).
		WithArgs(creatorID).
		WillReturnRows(sqlmock.NewRows([]string{"editor_id"}).AddRow(e1.String()).AddRow(e2.String()))

	ids, err := repo.EditorIDsByCreator(context.Background(), creatorID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{e1, e2}, ids)
}
