package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	// ListByMatch returns up to limit messages older than before (when set),
	// oldest first.
	ListByMatch(ctx context.Context, matchID uuid.UUID, before *time.Time, limit int) ([]*domain.ChatMessage, error)
	// MarkRead flags every unread message in the match not sent by readerID
	// and returns how many changed.
	MarkRead(ctx context.Context, matchID, readerID uuid.UUID) (int, error)
	CountUnread(ctx context.Context, matchIDs []uuid.UUID, readerID uuid.UUID) (map[uuid.UUID]int, error)
}
