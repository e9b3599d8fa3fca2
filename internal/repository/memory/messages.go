package memory

import (
	"context"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/google/uuid"
)

type messageRepository struct{ s *Store }

func (r *messageRepository) Create(_ context.Context, msg *domain.ChatMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	// Strictly increasing timestamps keep "before" pagination exact.
	now := time.Now()
	if !now.After(r.s.lastMessage) {
		now = r.s.lastMessage.Add(time.Microsecond)
	}
	r.s.lastMessage = now
	msg.CreatedAt = now
	msg.Read = false

	stored := *msg
	r.s.messages = append(r.s.messages, &stored)
	return nil
}

func (r *messageRepository) ListByMatch(_ context.Context, matchID uuid.UUID, before *time.Time, limit int) ([]*domain.ChatMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var picked []*domain.ChatMessage
	for i := len(r.s.messages) - 1; i >= 0 && len(picked) < limit; i-- {
		m := r.s.messages[i]
		if m.MatchID != matchID {
			continue
		}
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		out := *m
		picked = append(picked, &out)
	}

	messages := make([]*domain.ChatMessage, 0, len(picked))
	for i := len(picked) - 1; i >= 0; i-- {
		messages = append(messages, picked[i])
	}
	return messages, nil
}

func (r *messageRepository) MarkRead(_ context.Context, matchID, readerID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	changed := 0
	for _, m := range r.s.messages {
		if m.MatchID == matchID && m.SenderID != readerID && !m.Read {
			m.Read = true
			changed++
		}
	}
	return changed, nil
}

func (r *messageRepository) CountUnread(_ context.Context, matchIDs []uuid.UUID, readerID uuid.UUID) (map[uuid.UUID]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[uuid.UUID]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = struct{}{}
	}
	counts := make(map[uuid.UUID]int, len(matchIDs))
	for _, m := range r.s.messages {
		if _, ok := wanted[m.MatchID]; !ok {
			continue
		}
		if m.SenderID != readerID && !m.Read {
			counts[m.MatchID]++
		}
	}
	return counts, nil
}
