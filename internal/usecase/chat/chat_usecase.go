package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/creatorsync-backend/internal/repository"
	"github.com/google/uuid"
)

const (
	DefaultPageSize  = 50
	MaxPageSize      = 100
	MaxMessageLength = 2000
)

type ChatUseCase struct {
	matchRepo   repository.MatchRequestRepository
	creatorRepo repository.CreatorRepository
	editorRepo  repository.EditorRepository
	messageRepo repository.MessageRepository
}

func NewChatUseCase(
	matchRepo repository.MatchRequestRepository,
	creatorRepo repository.CreatorRepository,
	editorRepo repository.EditorRepository,
	messageRepo repository.MessageRepository,
) *ChatUseCase {
	return &ChatUseCase{
		matchRepo:   matchRepo,
		creatorRepo: creatorRepo,
		editorRepo:  editorRepo,
		messageRepo: messageRepo,
	}
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type ListMessagesQuery struct {
	Limit  int
	Before *time.Time
}

// CanChat reports whether userID may use the thread of a request: the
// request must be matched and the user must own its creator or editor side.
func (uc *ChatUseCase) CanChat(ctx context.Context, requestID, userID uuid.UUID) (bool, error) {
	err := uc.authorize(ctx, requestID, userID)
	if err == nil {
		return true, nil
	}
	if domain.KindOf(err) == domain.KindForbidden {
		return false, nil
	}
	return false, err
}

func (uc *ChatUseCase) authorize(ctx context.Context, requestID, userID uuid.UUID) error {
	req, err := uc.matchRepo.GetByID(ctx, requestID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return domain.ErrMatchNotFound
		}
		return err
	}
	if req.Status != domain.StatusMatched {
		return domain.ErrMatchNotConfirmed
	}

	creator, err := uc.creatorRepo.GetByID(ctx, req.CreatorID)
	if err != nil {
		return err
	}
	if creator.UserID == userID {
		return nil
	}
	editor, err := uc.editorRepo.GetByID(ctx, req.EditorID)
	if err != nil {
		return err
	}
	if editor.UserID == userID {
		return nil
	}
	return domain.ErrAccessDenied
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, matchID, senderID uuid.UUID, body string) (*domain.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.ErrEmptyMessage
	}
	if utf8.RuneCountInString(body) > MaxMessageLength {
		return nil, domain.ErrMessageTooLong
	}
	if err := uc.authorize(ctx, matchID, senderID); err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		ID:       uuid.New(),
		MatchID:  matchID,
		SenderID: senderID,
		Body:     body,
	}
	if err := uc.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	metrics.ChatMessagesSent.Inc()
	slog.DebugContext(ctx, "chat message sent", slog.String("match_id", matchID.String()))
	return msg, nil
}

// ListMessages returns a chronological page ending before q.Before and marks
// the counterpart's messages in the thread as read.
func (uc *ChatUseCase) ListMessages(ctx context.Context, matchID, userID uuid.UUID, q ListMessagesQuery) ([]*domain.ChatMessage, error) {
	if err := uc.authorize(ctx, matchID, userID); err != nil {
		return nil, err
	}

	limit := q.Limit
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}

	messages, err := uc.messageRepo.ListByMatch(ctx, matchID, q.Before, limit)
	if err != nil {
		return nil, err
	}
	if _, err := uc.messageRepo.MarkRead(ctx, matchID, userID); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*domain.ChatMessage{}
	}
	return messages, nil
}

// MarkRead returns how many messages were newly marked as read.
func (uc *ChatUseCase) MarkRead(ctx context.Context, matchID, userID uuid.UUID) (int, error) {
	if err := uc.authorize(ctx, matchID, userID); err != nil {
		return 0, err
	}
	return uc.messageRepo.MarkRead(ctx, matchID, userID)
}

// UnreadCount sums unread messages across the user's matched threads.
func (uc *ChatUseCase) UnreadCount(ctx context.Context, userID uuid.UUID, role domain.Role) (int, error) {
	var (
		requests []*domain.MatchRequest
		err      error
	)
	switch role {
	case domain.RoleCreator:
		creator, cerr := uc.creatorRepo.GetByUserID(ctx, userID)
		if cerr != nil {
			return 0, ignoreMissing(cerr)
		}
		requests, err = uc.matchRepo.ListByCreator(ctx, creator.ID, domain.StatusMatched)
	case domain.RoleEditor:
		editor, eerr := uc.editorRepo.GetByUserID(ctx, userID)
		if eerr != nil {
			return 0, ignoreMissing(eerr)
		}
		requests, err = uc.matchRepo.ListByEditor(ctx, editor.ID, domain.StatusMatched)
	default:
		return 0, domain.ErrAccessDenied
	}
	if err != nil {
		return 0, err
	}
	if len(requests) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(requests))
	for _, req := range requests {
		ids = append(ids, req.ID)
	}
	counts, err := uc.messageRepo.CountUnread(ctx, ids, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// ignoreMissing treats a user without a profile as having no threads.
func ignoreMissing(err error) error {
	if domain.KindOf(err) == domain.KindNotFound {
		return nil
	}
	return err
}
