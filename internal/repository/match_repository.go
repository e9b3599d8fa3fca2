package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/google/uuid"
)

type MatchRequestRepository interface {
	// Create stores a pending request together with the creator's "liked"
	// feed history row. A second request for the same pair fails with
	// domain.ErrRequestExists.
	Create(ctx context.Context, req *domain.MatchRequest, history *domain.FeedHistory) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MatchRequest, error)
	// CompareAndSwapStatus moves the request from one status to another and
	// reports whether this call won the write.
	CompareAndSwapStatus(ctx context.Context, id uuid.UUID, from, to domain.MatchStatus, at time.Time) (bool, error)
	// ListByCreator and ListByEditor return newest first. No statuses means all.
	ListByCreator(ctx context.Context, creatorID uuid.UUID, statuses ...domain.MatchStatus) ([]*domain.MatchRequest, error)
	ListByEditor(ctx context.Context, editorID uuid.UUID, statuses ...domain.MatchStatus) ([]*domain.MatchRequest, error)
	EditorIDsByCreator(ctx context.Context, creatorID uuid.UUID) ([]uuid.UUID, error)
	UpdateAIFields(ctx context.Context, id uuid.UUID, explanation string, icebreakers []string) error
}

type FeedHistoryRepository interface {
	Create(ctx context.Context, history *domain.FeedHistory) error
	EditorIDsByCreator(ctx context.Context, creatorID uuid.UUID) ([]uuid.UUID, error)
}
