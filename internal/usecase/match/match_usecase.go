package match

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/creatorsync-backend/internal/repository"
	"github.com/google/uuid"
)

const enrichTimeout = 10 * time.Second

// Enricher writes the AI explanation and icebreakers for a fresh match.
type Enricher interface {
	GenerateMatchExplanation(ctx context.Context, creator *domain.CreatorProfile, editor *domain.EditorProfile) (string, error)
	GenerateIcebreakers(ctx context.Context, creator *domain.CreatorProfile, editor *domain.EditorProfile) ([]string, error)
}

// Actor is the authenticated caller.
type Actor struct {
	UserID uuid.UUID
	Role   domain.Role
}

type MatchUseCase struct {
	matchRepo   repository.MatchRequestRepository
	historyRepo repository.FeedHistoryRepository
	creatorRepo repository.CreatorRepository
	editorRepo  repository.EditorRepository
	clipRepo    repository.ClipRepository
	messageRepo repository.MessageRepository
	enricher    Enricher
	now         func() time.Time
}

// NewMatchUseCase accepts a nil enricher, in which case matches are stored
// without AI fields.
func NewMatchUseCase(
	matchRepo repository.MatchRequestRepository,
	historyRepo repository.FeedHistoryRepository,
	creatorRepo repository.CreatorRepository,
	editorRepo repository.EditorRepository,
	clipRepo repository.ClipRepository,
	messageRepo repository.MessageRepository,
	enricher Enricher,
) *MatchUseCase {
	return &MatchUseCase{
		matchRepo:   matchRepo,
		historyRepo: historyRepo,
		creatorRepo: creatorRepo,
		editorRepo:  editorRepo,
		clipRepo:    clipRepo,
		messageRepo: messageRepo,
		enricher:    enricher,
		now:         time.Now,
	}
}

type FeedDecisionRequest struct {
	ClipID *uuid.UUID `json:"clip_id"`
}

type RespondRequest struct {
	Action domain.MatchAction `json:"action" binding:"required"`
}

func requireRole(actor Actor, role domain.Role) error {
	if actor.Role != role {
		return domain.ErrAccessDenied
	}
	return nil
}

// CreateLikeRequest sends a pending request from the caller to an editor and
// records the like in the creator's feed history atomically.
func (uc *MatchUseCase) CreateLikeRequest(ctx context.Context, actor Actor, editorID uuid.UUID, clipID *uuid.UUID) (*domain.MatchRequest, error) {
	if err := requireRole(actor, domain.RoleCreator); err != nil {
		return nil, err
	}
	creator, err := uc.creatorRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.editorRepo.GetByID(ctx, editorID); err != nil {
		return nil, err
	}
	if err := uc.checkClip(ctx, editorID, clipID); err != nil {
		return nil, err
	}

	now := uc.now()
	req := &domain.MatchRequest{
		ID:             uuid.New(),
		CreatorID:      creator.ID,
		EditorID:       editorID,
		ClipID:         clipID,
		Status:         domain.StatusPending,
		CreatorLikedAt: now,
		Icebreakers:    []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	history := &domain.FeedHistory{
		ID:        uuid.New(),
		CreatorID: creator.ID,
		EditorID:  editorID,
		ClipID:    clipID,
		Action:    domain.FeedActionLiked,
		CreatedAt: now,
	}
	if err := uc.matchRepo.Create(ctx, req, history); err != nil {
		return nil, err
	}

	metrics.MatchRequestsCreated.Inc()
	slog.InfoContext(ctx, "match request created",
		slog.String("request_id", req.ID.String()),
		slog.String("creator_id", creator.ID.String()),
		slog.String("editor_id", editorID.String()),
	)
	return req, nil
}

// PassEditor skips an editor in the creator's feed without creating a request.
func (uc *MatchUseCase) PassEditor(ctx context.Context, actor Actor, editorID uuid.UUID, clipID *uuid.UUID) error {
	if err := requireRole(actor, domain.RoleCreator); err != nil {
		return err
	}
	creator, err := uc.creatorRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if _, err := uc.editorRepo.GetByID(ctx, editorID); err != nil {
		return err
	}
	if err := uc.checkClip(ctx, editorID, clipID); err != nil {
		return err
	}

	return uc.historyRepo.Create(ctx, &domain.FeedHistory{
		ID:        uuid.New(),
		CreatorID: creator.ID,
		EditorID:  editorID,
		ClipID:    clipID,
		Action:    domain.FeedActionPassed,
		CreatedAt: uc.now(),
	})
}

func (uc *MatchUseCase) checkClip(ctx context.Context, editorID uuid.UUID, clipID *uuid.UUID) error {
	if clipID == nil {
		return nil
	}
	clip, err := uc.clipRepo.GetByID(ctx, *clipID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return domain.ErrClipNotOwned
		}
		return err
	}
	if clip.EditorID != editorID {
		return domain.ErrClipNotOwned
	}
	return nil
}

// RespondToRequest lets the editor accept or pass a pending request.
func (uc *MatchUseCase) RespondToRequest(ctx context.Context, actor Actor, requestID uuid.UUID, action domain.MatchAction) (*domain.MatchRequest, error) {
	if action != domain.ActionAccept && action != domain.ActionPass {
		return nil, domain.ErrInvalidAction
	}
	req, err := uc.loadOwned(ctx, actor, domain.RoleEditor, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.StatusPending {
		return nil, domain.ErrRequestNotPending
	}
	return uc.transition(ctx, req, action, domain.RoleEditor, domain.ErrRequestNotPending)
}

// FinalAccept turns an accepted request into a match.
func (uc *MatchUseCase) FinalAccept(ctx context.Context, actor Actor, requestID uuid.UUID) (*domain.MatchRequest, error) {
	req, err := uc.loadOwned(ctx, actor, domain.RoleEditor, requestID)
	if err != nil {
		return nil, err
	}
	req, err = uc.transition(ctx, req, domain.ActionFinalize, domain.RoleEditor, domain.ErrInvalidTransition)
	if err != nil {
		return nil, err
	}
	uc.enrich(ctx, req)
	return req, nil
}

// CreatorConfirm is the creator-side route from accepted to matched.
func (uc *MatchUseCase) CreatorConfirm(ctx context.Context, actor Actor, requestID uuid.UUID) (*domain.MatchRequest, error) {
	req, err := uc.loadOwned(ctx, actor, domain.RoleCreator, requestID)
	if err != nil {
		return nil, err
	}
	req, err = uc.transition(ctx, req, domain.ActionConfirm, domain.RoleCreator, domain.ErrInvalidTransition)
	if err != nil {
		return nil, err
	}
	uc.enrich(ctx, req)
	return req, nil
}

// CreatorPass withdraws a pending request or declines an accepted one.
func (uc *MatchUseCase) CreatorPass(ctx context.Context, actor Actor, requestID uuid.UUID) (*domain.MatchRequest, error) {
	req, err := uc.loadOwned(ctx, actor, domain.RoleCreator, requestID)
	if err != nil {
		return nil, err
	}
	return uc.transition(ctx, req, domain.ActionPass, domain.RoleCreator, domain.ErrInvalidTransition)
}

// loadOwned resolves the caller's role profile and the request, in that
// order, and checks the caller is the request's party for that role.
func (uc *MatchUseCase) loadOwned(ctx context.Context, actor Actor, role domain.Role, requestID uuid.UUID) (*domain.MatchRequest, error) {
	if err := requireRole(actor, role); err != nil {
		return nil, err
	}
	profileID, err := uc.profileID(ctx, actor)
	if err != nil {
		return nil, err
	}
	req, err := uc.matchRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.IsParty(role, profileID) {
		return nil, domain.ErrAccessDenied
	}
	return req, nil
}

func (uc *MatchUseCase) profileID(ctx context.Context, actor Actor) (uuid.UUID, error) {
	switch actor.Role {
	case domain.RoleCreator:
		creator, err := uc.creatorRepo.GetByUserID(ctx, actor.UserID)
		if err != nil {
			return uuid.Nil, err
		}
		return creator.ID, nil
	case domain.RoleEditor:
		editor, err := uc.editorRepo.GetByUserID(ctx, actor.UserID)
		if err != nil {
			return uuid.Nil, err
		}
		return editor.ID, nil
	}
	return uuid.Nil, domain.ErrAccessDenied
}

// transition applies action through the transition table and a
// compare-and-swap write. stateErr is returned when the request is not in a
// state the action applies to, including when a concurrent writer won.
func (uc *MatchUseCase) transition(ctx context.Context, req *domain.MatchRequest, action domain.MatchAction, actor domain.Role, stateErr error) (*domain.MatchRequest, error) {
	from := req.Status
	if from.IsTerminal() {
		return nil, stateErr
	}
	to, ok := domain.Transition(from, action, actor)
	if !ok {
		return nil, stateErr
	}

	at := uc.now()
	won, err := uc.matchRepo.CompareAndSwapStatus(ctx, req.ID, from, to, at)
	if err != nil {
		return nil, err
	}
	if !won {
		metrics.MatchCASConflicts.WithLabelValues(string(action)).Inc()
		if _, err := uc.matchRepo.GetByID(ctx, req.ID); err != nil {
			return nil, err
		}
		return nil, stateErr
	}

	req.Apply(to, at)
	metrics.MatchTransitions.WithLabelValues(string(from), string(to), string(action)).Inc()
	slog.InfoContext(ctx, "match request transitioned",
		slog.String("request_id", req.ID.String()),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.String("action", string(action)),
	)
	return req, nil
}

// enrich attaches an explanation and icebreakers to a fresh match. Failures
// are logged and never fail the transition.
func (uc *MatchUseCase) enrich(ctx context.Context, req *domain.MatchRequest) {
	if uc.enricher == nil {
		metrics.AIEnrichment.WithLabelValues("skipped").Inc()
		return
	}

	ctx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	log := slog.With(slog.String("request_id", req.ID.String()))

	creator, err := uc.creatorRepo.GetByID(ctx, req.CreatorID)
	if err != nil {
		log.WarnContext(ctx, "ai enrichment skipped", slog.Any("error", err))
		metrics.AIEnrichment.WithLabelValues("failed").Inc()
		return
	}
	editor, err := uc.editorRepo.GetByID(ctx, req.EditorID)
	if err != nil {
		log.WarnContext(ctx, "ai enrichment skipped", slog.Any("error", err))
		metrics.AIEnrichment.WithLabelValues("failed").Inc()
		return
	}

	explanation, err := uc.enricher.GenerateMatchExplanation(ctx, creator, editor)
	if err != nil {
		log.WarnContext(ctx, "failed to generate match explanation", slog.Any("error", err))
		metrics.AIEnrichment.WithLabelValues("failed").Inc()
		return
	}

	result := "success"
	icebreakers, err := uc.enricher.GenerateIcebreakers(ctx, creator, editor)
	if err != nil {
		log.WarnContext(ctx, "failed to generate icebreakers", slog.Any("error", err))
		icebreakers = []string{}
		result = "partial"
	}

	if err := uc.matchRepo.UpdateAIFields(ctx, req.ID, explanation, icebreakers); err != nil {
		log.WarnContext(ctx, "failed to store ai fields", slog.Any("error", err))
		metrics.AIEnrichment.WithLabelValues("failed").Inc()
		return
	}

	req.Explanation = &explanation
	req.Icebreakers = icebreakers
	metrics.AIEnrichment.WithLabelValues(result).Inc()
}
