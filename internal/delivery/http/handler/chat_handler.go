package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/usecase/chat"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatUseCase *chat.ChatUseCase
}

func NewChatHandler(chatUseCase *chat.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

// SendMessage posts a message to a matched thread
// @Summary Send message
// @Tags chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param match_id path string true "Match ID"
// @Param request body chat.SendMessageRequest true "Message"
// @Success 201 {object} domain.ChatMessage
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /chat/{match_id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	matchID, ok := parseIDParam(c, "match_id")
	if !ok {
		return
	}
	var req chat.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	msg, err := h.chatUseCase.SendMessage(c.Request.Context(), matchID, actor.UserID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// ListMessages returns a page of messages, oldest first
// @Summary List messages
// @Tags chat
// @Security BearerAuth
// @Param match_id path string true "Match ID"
// @Param limit query int false "Page size (default 50, max 100)"
// @Param before query string false "RFC 3339 timestamp"
// @Success 200 {array} domain.ChatMessage
// @Router /chat/{match_id}/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	matchID, ok := parseIDParam(c, "match_id")
	if !ok {
		return
	}

	var q chat.ListMessagesQuery
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer", Code: domain.KindValidation.String()})
			return
		}
		q.Limit = n
	}
	if raw := c.Query("before"); raw != "" {
		before, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "before must be an RFC 3339 timestamp", Code: domain.KindValidation.String()})
			return
		}
		q.Before = &before
	}

	messages, err := h.chatUseCase.ListMessages(c.Request.Context(), matchID, actor.UserID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	matchID, ok := parseIDParam(c, "match_id")
	if !ok {
		return
	}

	n, err := h.chatUseCase.MarkRead(c.Request.Context(), matchID, actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_read": n})
}

func (h *ChatHandler) UnreadCount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	n, err := h.chatUseCase.UnreadCount(c.Request.Context(), actor.UserID, actor.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": n})
}
