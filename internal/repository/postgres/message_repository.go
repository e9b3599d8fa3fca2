package postgres

import (
	"context"
	"slices"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	query := `
		INSERT INTO chat_messages (id, match_id, sender_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING read, created_at
	`
	err := r.db.QueryRowContext(ctx, query, msg.ID, msg.MatchID, msg.SenderID, msg.Body).
		Scan(&msg.Read, &msg.CreatedAt)
	if err != nil {
		return domain.Unavailable("create message", err)
	}
	return nil
}

func (r *messageRepository) ListByMatch(ctx context.Context, matchID uuid.UUID, before *time.Time, limit int) ([]*domain.ChatMessage, error) {
	query := `SELECT id, match_id, sender_id, body, read, created_at FROM chat_messages WHERE match_id = $1`
	args := []any{matchID}
	if before != nil {
		query += ` AND created_at < $2 ORDER BY created_at DESC LIMIT $3`
		args = append(args, *before, limit)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $2`
		args = append(args, limit)
	}

	var messages []*domain.ChatMessage
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, domain.Unavailable("list messages", err)
	}
	slices.Reverse(messages)
	return messages, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, matchID, readerID uuid.UUID) (int, error) {
	query := `
		UPDATE chat_messages SET read = TRUE
		WHERE match_id = $1 AND sender_id <> $2 AND read = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, matchID, readerID)
	if err != nil {
		return 0, domain.Unavailable("mark messages read", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, domain.Unavailable("mark messages read", err)
	}
	return int(rows), nil
}

type unreadRow struct {
	MatchID uuid.UUID `db:"match_id"`
	Count   int       `db:"count"`
}

func (r *messageRepository) CountUnread(ctx context.Context, matchIDs []uuid.UUID, readerID uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(matchIDs))
	if len(matchIDs) == 0 {
		return counts, nil
	}

	ids := make([]string, len(matchIDs))
	for i, id := range matchIDs {
		ids[i] = id.String()
	}

	var rows []unreadRow
	query := `
		SELECT match_id, COUNT(*) AS count
		FROM chat_messages
		WHERE match_id = ANY($1::uuid[]) AND sender_id <> $2 AND read = FALSE
		GROUP BY match_id
	`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids), readerID); err != nil {
		return nil, domain.Unavailable("count unread messages", err)
	}
	for _, row := range rows {
		counts[row.MatchID] = row.Count
	}
	return counts, nil
}
