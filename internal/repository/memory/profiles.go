package memory

import (
	"context"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/google/uuid"
)

type creatorRepository struct{ s *Store }

func (r *creatorRepository) Create(_ context.Context, creator *domain.CreatorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.creators {
		if c.UserID == creator.UserID {
			return domain.ErrProfileAlreadyExists
		}
	}
	if creator.ID == uuid.Nil {
		creator.ID = uuid.New()
	}
	now := time.Now()
	creator.CreatedAt, creator.UpdatedAt = now, now
	r.s.creators[creator.ID] = cloneCreator(creator)
	return nil
}

func (r *creatorRepository) Update(_ context.Context, creator *domain.CreatorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.creators[creator.ID]
	if !ok {
		return domain.ErrCreatorNotFound
	}
	creator.CreatedAt = existing.CreatedAt
	creator.UpdatedAt = time.Now()
	r.s.creators[creator.ID] = cloneCreator(creator)
	return nil
}

func (r *creatorRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.CreatorProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.creators[id]
	if !ok {
		return nil, domain.ErrCreatorNotFound
	}
	return cloneCreator(c), nil
}

func (r *creatorRepository) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.CreatorProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.creators {
		if c.UserID == userID {
			return cloneCreator(c), nil
		}
	}
	return nil, domain.ErrCreatorNotFound
}

type editorRepository struct{ s *Store }

func (r *editorRepository) Create(_ context.Context, editor *domain.EditorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.editors {
		if e.UserID == editor.UserID {
			return domain.ErrProfileAlreadyExists
		}
	}
	if editor.ID == uuid.Nil {
		editor.ID = uuid.New()
	}
	now := time.Now()
	editor.CreatedAt, editor.UpdatedAt = now, now
	r.s.editors[editor.ID] = cloneEditor(editor)
	r.s.editorOrder = append(r.s.editorOrder, editor.ID)
	return nil
}

func (r *editorRepository) Update(_ context.Context, editor *domain.EditorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.editors[editor.ID]
	if !ok {
		return domain.ErrEditorNotFound
	}
	editor.CreatedAt = existing.CreatedAt
	editor.UpdatedAt = time.Now()
	r.s.editors[editor.ID] = cloneEditor(editor)
	return nil
}

func (r *editorRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.EditorProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.editors[id]
	if !ok {
		return nil, domain.ErrEditorNotFound
	}
	return cloneEditor(e), nil
}

func (r *editorRepository) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.EditorProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.editors {
		if e.UserID == userID {
			return cloneEditor(e), nil
		}
	}
	return nil, domain.ErrEditorNotFound
}

func (r *editorRepository) GetTags(_ context.Context, editorID uuid.UUID) ([]domain.EditorTag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.editors[editorID]
	if !ok {
		return []domain.EditorTag{}, nil
	}
	return append([]domain.EditorTag{}, e.Tags...), nil
}

func (r *editorRepository) ListByContentType(_ context.Context, contentType string) ([]*domain.EditorProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.EditorProfile
	for _, id := range r.s.editorOrder {
		e := r.s.editors[id]
		if e.HasContentType(contentType) {
			out = append(out, cloneEditor(e))
		}
	}
	return out, nil
}

type clipRepository struct{ s *Store }

func (r *clipRepository) Create(_ context.Context, clip *domain.Clip) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.editors[clip.EditorID]; !ok {
		return domain.ErrEditorNotFound
	}
	count := 0
	for _, c := range r.s.clips {
		if c.EditorID == clip.EditorID {
			count++
		}
	}
	if clip.ID == uuid.Nil {
		clip.ID = uuid.New()
	}
	clip.OrderIndex = count
	clip.CreatedAt = time.Now()
	stored := *clip
	r.s.clips[clip.ID] = &stored
	return nil
}

func (r *clipRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Clip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.clips[id]
	if !ok {
		return nil, domain.ErrClipNotFound
	}
	out := *c
	return &out, nil
}

func (r *clipRepository) ListByEditor(_ context.Context, editorID uuid.UUID) ([]*domain.Clip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	clips := make([]*domain.Clip, 0)
	for _, c := range r.s.clips {
		if c.EditorID == editorID {
			out := *c
			clips = append(clips, &out)
		}
	}
	sortClips(clips)
	return clips, nil
}
