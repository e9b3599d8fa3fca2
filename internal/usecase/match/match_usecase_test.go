package match

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEnricher struct {
	icebreakerErr error
	calls         int
}

func (s *stubEnricher) GenerateMatchExplanation(_ context.Context, creator *domain.CreatorProfile, editor *domain.EditorProfile) (string, error) {
	s.calls++
	return editor.AnonymousName + " fits " + creator.DisplayName, nil
}

func (s *stubEnricher) GenerateIcebreakers(context.Context, *domain.CreatorProfile, *domain.EditorProfile) ([]string, error) {
	if s.icebreakerErr != nil {
		return nil, s.icebreakerErr
	}
	return []string{"Hi!", "Love your clips"}, nil
}

type scenario struct {
	store    *memory.Store
	uc       *MatchUseCase
	creator  Actor
	editor   Actor
	editorID uuid.UUID
	clipID   uuid.UUID
}

// newScenario seeds creator C1 and editor E1 with one clip.
func newScenario(t *testing.T, enricher Enricher) *scenario {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	s := &scenario{
		store:   store,
		creator: Actor{UserID: uuid.New(), Role: domain.RoleCreator},
		editor:  Actor{UserID: uuid.New(), Role: domain.RoleEditor},
	}
	require.NoError(t, store.Creators().Create(ctx, &domain.CreatorProfile{
		UserID: s.creator.UserID, DisplayName: "C1", ContentType: "Minecraft",
		PreferredStyles: []string{"Cinematic"},
	}))
	editor := &domain.EditorProfile{
		UserID: s.editor.UserID, AnonymousName: "E1", RealName: "Jordan Pike",
		Tags: domain.BuildEditorTags([]string{"Minecraft"}, []string{"Cinematic"}),
	}
	require.NoError(t, store.Editors().Create(ctx, editor))
	clip := &domain.Clip{EditorID: editor.ID, FilePath: "e1/reel.mp4"}
	require.NoError(t, store.Clips().Create(ctx, clip))
	s.editorID, s.clipID = editor.ID, clip.ID

	s.uc = NewMatchUseCase(store.MatchRequests(), store.FeedHistory(), store.Creators(),
		store.Editors(), store.Clips(), store.Messages(), enricher)
	return s
}

func (s *scenario) like(t *testing.T) *domain.MatchRequest {
	t.Helper()
	req, err := s.uc.CreateLikeRequest(context.Background(), s.creator, s.editorID, &s.clipID)
	require.NoError(t, err)
	return req
}

func TestFullLifecycleC1E1(t *testing.T) {
	enricher := &stubEnricher{}
	s := newScenario(t, enricher)
	ctx := context.Background()

	req := s.like(t)
	assert.Equal(t, domain.StatusPending, req.Status)

	history, err := s.store.FeedHistory().EditorIDsByCreator(ctx, req.CreatorID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s.editorID}, history)

	incoming, err := s.uc.ListEditorRequests(ctx, s.editor)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "C1", incoming[0].DisplayName)

	_, err = s.uc.GetMatchDetails(ctx, s.creator, req.ID)
	assert.ErrorIs(t, err, domain.ErrMatchNotConfirmed)

	accepted, err := s.uc.RespondToRequest(ctx, s.editor, req.ID, domain.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, accepted.Status)
	assert.NotNil(t, accepted.EditorAcceptedAt)

	matched, err := s.uc.FinalAccept(ctx, s.editor, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMatched, matched.Status)
	assert.NotNil(t, matched.FinalMatchedAt)
	require.NotNil(t, matched.Explanation)
	assert.Equal(t, "E1 fits C1", *matched.Explanation)
	assert.Equal(t, 1, enricher.calls)

	details, err := s.uc.GetMatchDetails(ctx, s.creator, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jordan Pike", details.Editor.RealName)
	assert.Equal(t, []string{"Hi!", "Love your clips"}, details.Match.Icebreakers)
	require.Len(t, details.Editor.Clips, 1)

	matches, err := s.uc.GetMatches(ctx, s.creator)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Jordan Pike", matches[0].Editor.RealName)

	editorMatches, err := s.uc.GetMatches(ctx, s.editor)
	require.NoError(t, err)
	require.Len(t, editorMatches, 1)
	assert.Equal(t, "C1", editorMatches[0].Creator.DisplayName)
	assert.Nil(t, editorMatches[0].Editor)

	// terminal: nothing moves a matched request
	_, err = s.uc.CreatorPass(ctx, s.creator, req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = s.uc.RespondToRequest(ctx, s.editor, req.ID, domain.ActionPass)
	assert.ErrorIs(t, err, domain.ErrRequestNotPending)

	incoming, err = s.uc.ListEditorRequests(ctx, s.editor)
	require.NoError(t, err)
	assert.Empty(t, incoming)
}

func TestCreatorConfirmMatches(t *testing.T) {
	s := newScenario(t, nil)
	ctx := context.Background()
	req := s.like(t)

	_, err := s.uc.CreatorConfirm(ctx, s.creator, req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = s.uc.RespondToRequest(ctx, s.editor, req.ID, domain.ActionAccept)
	require.NoError(t, err)

	matched, err := s.uc.CreatorConfirm(ctx, s.creator, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMatched, matched.Status)
	assert.Nil(t, matched.Explanation)
}

func TestCreatorPassFromPendingAndAccepted(t *testing.T) {
	s := newScenario(t, nil)
	ctx := context.Background()
	req := s.like(t)

	passed, err := s.uc.CreatorPass(ctx, s.creator, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPassed, passed.Status)

	_, err = s.uc.RespondToRequest(ctx, s.editor, req.ID, domain.ActionAccept)
	assert.ErrorIs(t, err, domain.ErrRequestNotPending)
}

func TestEditorPassIsTerminal(t *testing.T) {
	s := newScenario(t, nil)
	ctx := context.Background()
	req := s.like(t)

	passed, err := s.uc.RespondToRequest(ctx, s.editor, req.ID, domain.ActionPass)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPassed, passed.Status)

	_, err = s.uc.FinalAccept(ctx, s.editor, req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = s.uc.CreatorPass(ctx, s.creator, req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = s.uc.CreatorConfirm(ctx, s.creator, req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// a passed pair still blocks a new like
	_, err = s.uc.CreateLikeRequest(ctx, s.creator, s.editorID, nil)
	assert.ErrorIs(t, err, domain.ErrRequestExists)
}

func TestFinalAcceptRequiresAccepted(t *testing.T) {
	s := newScenario(t, nil)
	req := s.like(t)

	_, err := s.uc.FinalAccept(context.Background(), s.editor, req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
}

func TestCreateLikeRequestValidation(t *testing.T) {
	s := newScenario(t, nil)
	ctx := context.Background()

	t.Run("unknown editor", func(t *testing.T) {
		_, err := s.uc.CreateLikeRequest(ctx, s.creator, uuid.New(), nil)
		assert.ErrorIs(t, err, domain.ErrEditorNotFound)
	})

	t.Run("clip of another editor", func(t *testing.T) {
		other := &domain.EditorProfile{UserID: uuid.New(), AnonymousName: "E2"}
		require.NoError(t, s.store.Editors().Create(ctx, other))
		_, err := s.uc.CreateLikeRequest(ctx, s.creator, other.ID, &s.clipID)
		assert.ErrorIs(t, err, domain.ErrClipNotOwned)
	})

	t.Run("unknown clip", func(t *testing.T) {
		missing := uuid.New()
		_, err := s.uc.CreateLikeRequest(ctx, s.creator, s.editorID, &missing)
		assert.ErrorIs(t, err, domain.ErrClipNotOwned)
	})

	t.Run("no creator profile", func(t *testing.T) {
		_, err := s.uc.CreateLikeRequest(ctx, Actor{UserID: uuid.New(), Role: domain.RoleCreator}, s.editorID, nil)
		assert.ErrorIs(t, err, domain.ErrCreatorNotFound)
	})

	t.Run("editor cannot like", func(t *testing.T) {
		_, err := s.uc.CreateLikeRequest(ctx, s.editor, s.editorID, nil)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("duplicate", func(t *testing.T) {
		s.like(t)
		_, err := s.uc.CreateLikeRequest(ctx, s.creator, s.editorID, nil)
		assert.ErrorIs(t, err, domain.ErrRequestExists)
	})
}

func TestRespondAuthorization(t *testing.T) {
	s := newScenario(t, nil)
	ctx := context.Background()
	req := s.like(t)

	t.Run("invalid action", func(t *testing.T) {
		_, err := s.uc.RespondToRequest(ctx, s.editor, req.ID, domain.ActionFinalize)
		assert.ErrorIs(t, err, domain.ErrInvalidAction)
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := s.uc.RespondToRequest(ctx, s.editor, uuid.New(), domain.ActionAccept)
		assert.ErrorIs(t, err, domain.ErrMatchRequestNotFound)
	})

	t.Run("other editor", func(t *testing.T) {
		intruder := Actor{UserID: uuid.New(), Role: domain.RoleEditor}
		require.NoError(t, s.store.Editors().Create(ctx, &domain.EditorProfile{UserID: intruder.UserID, AnonymousName: "E9"}))
		_, err := s.uc.RespondToRequest(ctx, intruder, req.ID, domain.ActionAccept)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("creator role", func(t *testing.T) {
		_, err := s.uc.RespondToRequest(ctx, s.creator, req.ID, domain.ActionAccept)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
		_, err = s.uc.FinalAccept(ctx, s.creator, req.ID)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("editor cannot confirm as creator", func(t *testing.T) {
		_, err := s.uc.CreatorConfirm(ctx, s.editor, req.ID)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})
}

func TestConcurrentDuplicateLikesCreateOneRequest(t *testing.T) {
	s := newScenario(t, nil)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.uc.CreateLikeRequest(ctx, s.creator, s.editorID, nil)
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrRequestExists)
	}
	assert.Equal(t, 1, created)

	requests, err := s.uc.ListCreatorRequests(ctx, s.creator)
	require.NoError(t, err)
	assert.Len(t, requests, 1)
}

func TestConcurrentAcceptAndPassHaveOneWinner(t *testing.T) {
	s := newScenario(t, nil)
	ctx := context.Background()
	req := s.like(t)

	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, results[0] = s.uc.RespondToRequest(ctx, s.editor, req.ID, domain.ActionAccept)
	}()
	go func() {
		defer wg.Done()
		_, results[1] = s.uc.CreatorPass(ctx, s.creator, req.ID)
	}()
	wg.Wait()

	stored, err := s.store.MatchRequests().GetByID(ctx, req.ID)
	require.NoError(t, err)

	switch {
	case results[0] == nil:
		// accept won; the creator may still pass the accepted request
		if results[1] == nil {
			assert.Equal(t, domain.StatusPassed, stored.Status)
		} else {
			assert.ErrorIs(t, results[1], domain.ErrInvalidTransition)
			assert.Equal(t, domain.StatusAccepted, stored.Status)
		}
	default:
		assert.NoError(t, results[1])
		assert.ErrorIs(t, results[0], domain.ErrRequestNotPending)
		assert.Equal(t, domain.StatusPassed, stored.Status)
	}
}

func TestConcurrentFinalizeAndCreatorPass(t *testing.T) {
	s := newScenario(t, nil)
	ctx := context.Background()
	req := s.like(t)
	_, err := s.uc.RespondToRequest(ctx, s.editor, req.ID, domain.ActionAccept)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, results[0] = s.uc.FinalAccept(ctx, s.editor, req.ID)
	}()
	go func() {
		defer wg.Done()
		_, results[1] = s.uc.CreatorPass(ctx, s.creator, req.ID)
	}()
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, winners)

	stored, err := s.store.MatchRequests().GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.True(t, stored.Status.IsTerminal())
}

func TestEnrichmentFailureDoesNotFailMatch(t *testing.T) {
	s := newScenario(t, &stubEnricher{icebreakerErr: errors.New("quota exceeded")})
	ctx := context.Background()
	req := s.like(t)
	_, err := s.uc.RespondToRequest(ctx, s.editor, req.ID, domain.ActionAccept)
	require.NoError(t, err)

	matched, err := s.uc.FinalAccept(ctx, s.editor, req.ID)
	require.NoError(t, err)
	require.NotNil(t, matched.Explanation)
	assert.Empty(t, matched.Icebreakers)
}

func TestGetMatchDetailsAuthorization(t *testing.T) {
	s := newScenario(t, nil)
	ctx := context.Background()
	req := s.like(t)
	_, err := s.uc.RespondToRequest(ctx, s.editor, req.ID, domain.ActionAccept)
	require.NoError(t, err)
	_, err = s.uc.FinalAccept(ctx, s.editor, req.ID)
	require.NoError(t, err)

	_, err = s.uc.GetMatchDetails(ctx, s.creator, uuid.New())
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)

	outsider := Actor{UserID: uuid.New(), Role: domain.RoleCreator}
	require.NoError(t, s.store.Creators().Create(ctx, &domain.CreatorProfile{UserID: outsider.UserID, DisplayName: "C2"}))
	_, err = s.uc.GetMatchDetails(ctx, outsider, req.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	details, err := s.uc.GetMatchDetails(ctx, s.editor, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "C1", details.Creator.DisplayName)
}

func TestPassEditorAndStats(t *testing.T) {
	s := newScenario(t, nil)
	ctx := context.Background()

	other := &domain.EditorProfile{UserID: uuid.New(), AnonymousName: "E2"}
	require.NoError(t, s.store.Editors().Create(ctx, other))
	require.NoError(t, s.uc.PassEditor(ctx, s.creator, other.ID, nil))

	creatorProfile, err := s.store.Creators().GetByUserID(ctx, s.creator.UserID)
	require.NoError(t, err)
	seen, err := s.store.FeedHistory().EditorIDsByCreator(ctx, creatorProfile.ID)
	require.NoError(t, err)
	assert.Contains(t, seen, other.ID)

	s.like(t)
	stats, err := s.uc.GetStats(ctx, s.creator)
	require.NoError(t, err)
	require.NotNil(t, stats.Pending)
	assert.Equal(t, 1, *stats.Pending)
	assert.Nil(t, stats.IncomingPending)

	editorStats, err := s.uc.GetStats(ctx, s.editor)
	require.NoError(t, err)
	require.NotNil(t, editorStats.IncomingPending)
	assert.Equal(t, 1, *editorStats.IncomingPending)
	assert.Zero(t, editorStats.Matched)
}
