package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingRequest(t *testing.T, store *Store) *domain.MatchRequest {
	t.Helper()
	now := time.Now()
	req := &domain.MatchRequest{
		CreatorID:      uuid.New(),
		EditorID:       uuid.New(),
		Status:         domain.StatusPending,
		CreatorLikedAt: now,
		CreatedAt:      now,
	}
	require.NoError(t, store.MatchRequests().Create(context.Background(), req, nil))
	return req
}

func TestCompareAndSwapStatusSingleWinner(t *testing.T) {
	store := NewStore()
	req := newPendingRequest(t, store)
	repo := store.MatchRequests()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			to := domain.StatusAccepted
			if i%2 == 0 {
				to = domain.StatusPassed
			}
			ok, err := repo.CompareAndSwapStatus(context.Background(), req.ID, domain.StatusPending, to, time.Now())
			assert.NoError(t, err)
			if ok {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	got, err := repo.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.NotEqual(t, domain.StatusPending, got.Status)
}

func TestCompareAndSwapStatusStampsTimestamps(t *testing.T) {
	store := NewStore()
	req := newPendingRequest(t, store)
	repo := store.MatchRequests()
	at := time.Now()

	ok, err := repo.CompareAndSwapStatus(context.Background(), req.ID, domain.StatusPending, domain.StatusAccepted, at)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EditorAcceptedAt)
	assert.True(t, at.Equal(*got.EditorAcceptedAt))

	ok, err = repo.CompareAndSwapStatus(context.Background(), req.ID, domain.StatusPending, domain.StatusPassed, at)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateRejectsDuplicatePair(t *testing.T) {
	store := NewStore()
	req := newPendingRequest(t, store)

	dup := &domain.MatchRequest{CreatorID: req.CreatorID, EditorID: req.EditorID, Status: domain.StatusPending}
	err := store.MatchRequests().Create(context.Background(), dup, &domain.FeedHistory{CreatorID: req.CreatorID, EditorID: req.EditorID})
	assert.ErrorIs(t, err, domain.ErrRequestExists)

	// the rejected create must not leave a history row behind
	ids, err := store.FeedHistory().EditorIDsByCreator(context.Background(), req.CreatorID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReturnedRequestsAreCopies(t *testing.T) {
	store := NewStore()
	req := newPendingRequest(t, store)

	got, err := store.MatchRequests().GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	got.Status = domain.StatusMatched

	again, err := store.MatchRequests().GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, again.Status)
}

func TestClipOrderIndexFollowsCount(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	editor := &domain.EditorProfile{UserID: uuid.New(), AnonymousName: "E1"}
	require.NoError(t, store.Editors().Create(ctx, editor))

	for i := 0; i < 3; i++ {
		clip := &domain.Clip{EditorID: editor.ID, FilePath: "clip.mp4"}
		require.NoError(t, store.Clips().Create(ctx, clip))
		assert.Equal(t, i, clip.OrderIndex)
	}

	clips, err := store.Clips().ListByEditor(ctx, editor.ID)
	require.NoError(t, err)
	require.Len(t, clips, 3)
	assert.Equal(t, 0, clips[0].OrderIndex)
	assert.Equal(t, 2, clips[2].OrderIndex)
}

func TestMessagesPaginationAndRead(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	repo := store.Messages()
	matchID, alice, bob := uuid.New(), uuid.New(), uuid.New()

	var sent []*domain.ChatMessage
	for i := 0; i < 5; i++ {
		sender := alice
		if i%2 == 1 {
			sender = bob
		}
		msg := &domain.ChatMessage{MatchID: matchID, SenderID: sender, Body: "m"}
		require.NoError(t, repo.Create(ctx, msg))
		sent = append(sent, msg)
	}

	latest, err := repo.ListByMatch(ctx, matchID, nil, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, sent[3].ID, latest[0].ID)
	assert.Equal(t, sent[4].ID, latest[1].ID)

	older, err := repo.ListByMatch(ctx, matchID, &latest[0].CreatedAt, 10)
	require.NoError(t, err)
	require.Len(t, older, 3)
	assert.Equal(t, sent[0].ID, older[0].ID)

	counts, err := repo.CountUnread(ctx, []uuid.UUID{matchID}, bob)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[matchID])

	n, err := repo.MarkRead(ctx, matchID, bob)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.MarkRead(ctx, matchID, bob)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
