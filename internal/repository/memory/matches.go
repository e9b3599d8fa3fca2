package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/google/uuid"
)

func sortClips(clips []*domain.Clip) {
	sort.Slice(clips, func(i, j int) bool { return clips[i].OrderIndex < clips[j].OrderIndex })
}

type matchRequestRepository struct{ s *Store }

func (r *matchRequestRepository) Create(_ context.Context, req *domain.MatchRequest, history *domain.FeedHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.requests {
		if existing.CreatorID == req.CreatorID && existing.EditorID == req.EditorID {
			return domain.ErrRequestExists
		}
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.UpdatedAt.IsZero() {
		req.UpdatedAt = req.CreatedAt
	}
	r.s.requests[req.ID] = cloneRequest(req)
	r.s.requestOrder = append(r.s.requestOrder, req.ID)

	if history != nil {
		if history.ID == uuid.Nil {
			history.ID = uuid.New()
		}
		r.s.history = append(r.s.history, *history)
	}
	return nil
}

func (r *matchRequestRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.MatchRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.requests[id]
	if !ok {
		return nil, domain.ErrMatchRequestNotFound
	}
	return cloneRequest(m), nil
}

func (r *matchRequestRepository) CompareAndSwapStatus(_ context.Context, id uuid.UUID, from, to domain.MatchStatus, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.requests[id]
	if !ok || m.Status != from {
		return false, nil
	}
	m.Apply(to, at)
	return true, nil
}

func (r *matchRequestRepository) ListByCreator(_ context.Context, creatorID uuid.UUID, statuses ...domain.MatchStatus) ([]*domain.MatchRequest, error) {
	return r.list(func(m *domain.MatchRequest) bool { return m.CreatorID == creatorID }, statuses), nil
}

func (r *matchRequestRepository) ListByEditor(_ context.Context, editorID uuid.UUID, statuses ...domain.MatchStatus) ([]*domain.MatchRequest, error) {
	return r.list(func(m *domain.MatchRequest) bool { return m.EditorID == editorID }, statuses), nil
}

// list walks insertion order backwards so results are newest first.
func (r *matchRequestRepository) list(match func(*domain.MatchRequest) bool, statuses []domain.MatchStatus) []*domain.MatchRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.MatchRequest
	for i := len(r.s.requestOrder) - 1; i >= 0; i-- {
		m := r.s.requests[r.s.requestOrder[i]]
		if !match(m) {
			continue
		}
		if len(statuses) > 0 && !slices.Contains(statuses, m.Status) {
			continue
		}
		out = append(out, cloneRequest(m))
	}
	return out
}

func (r *matchRequestRepository) EditorIDsByCreator(_ context.Context, creatorID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []uuid.UUID
	for _, m := range r.s.requests {
		if m.CreatorID == creatorID {
			ids = append(ids, m.EditorID)
		}
	}
	return ids, nil
}

func (r *matchRequestRepository) UpdateAIFields(_ context.Context, id uuid.UUID, explanation string, icebreakers []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.requests[id]
	if !ok {
		return domain.ErrMatchRequestNotFound
	}
	m.Explanation = &explanation
	m.Icebreakers = cloneStrings(icebreakers)
	m.UpdatedAt = time.Now()
	return nil
}

type feedHistoryRepository struct{ s *Store }

func (r *feedHistoryRepository) Create(_ context.Context, history *domain.FeedHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if history.ID == uuid.Nil {
		history.ID = uuid.New()
	}
	r.s.history = append(r.s.history, *history)
	return nil
}

func (r *feedHistoryRepository) EditorIDsByCreator(_ context.Context, creatorID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, h := range r.s.history {
		if h.CreatorID != creatorID {
			continue
		}
		if _, dup := seen[h.EditorID]; dup {
			continue
		}
		seen[h.EditorID] = struct{}{}
		ids = append(ids, h.EditorID)
	}
	return ids, nil
}
