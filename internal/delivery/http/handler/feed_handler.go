package handler

import (
	"net/http"
	"strconv"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/usecase/feed"
	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedUseCase *feed.FeedUseCase
}

func NewFeedHandler(feedUseCase *feed.FeedUseCase) *FeedHandler {
	return &FeedHandler{
		feedUseCase: feedUseCase,
	}
}

// GetFeed returns the curated editor feed
// @Summary Get feed
// @Tags creators
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Max editors (default 10, max 50)"
// @Success 200 {array} feed.FeedItem
// @Failure 404 {object} ErrorResponse
// @Router /creators/feed [get]
func (h *FeedHandler) GetFeed(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer", Code: domain.KindValidation.String()})
			return
		}
		limit = n
	}

	items, err := h.feedUseCase.GetFeed(c.Request.Context(), actor.UserID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feed": items})
}
