package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gdugdh24/creatorsync-backend/internal/usecase/match"
	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchUseCase *match.MatchUseCase
}

func NewMatchHandler(matchUseCase *match.MatchUseCase) *MatchHandler {
	return &MatchHandler{
		matchUseCase: matchUseCase,
	}
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return false
	}
	return true
}

// LikeEditor sends a request to an editor from the feed
// @Summary Like editor
// @Tags creators
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param editor_id path string true "Editor ID"
// @Param request body match.FeedDecisionRequest false "Clip shown on the card"
// @Success 201 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /creators/like/{editor_id} [post]
func (h *MatchHandler) LikeEditor(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	editorID, ok := parseIDParam(c, "editor_id")
	if !ok {
		return
	}
	var req match.FeedDecisionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	created, err := h.matchUseCase.CreateLikeRequest(c.Request.Context(), actor, editorID, req.ClipID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "request sent successfully",
		"request_id": created.ID,
	})
}

// PassEditor skips an editor in the feed
// @Summary Pass editor
// @Tags creators
// @Security BearerAuth
// @Router /creators/pass/{editor_id} [post]
func (h *MatchHandler) PassEditor(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	editorID, ok := parseIDParam(c, "editor_id")
	if !ok {
		return
	}
	var req match.FeedDecisionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	if err := h.matchUseCase.PassEditor(c.Request.Context(), actor, editorID, req.ClipID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "editor passed"})
}

func (h *MatchHandler) ListCreatorRequests(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	requests, err := h.matchUseCase.ListCreatorRequests(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *MatchHandler) ListEditorRequests(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	requests, err := h.matchUseCase.ListEditorRequests(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Respond accepts or passes an incoming request
// @Summary Respond to request
// @Tags editors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request_id path string true "Request ID"
// @Param request body match.RespondRequest true "accept or pass"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /editors/requests/{request_id}/respond [post]
func (h *MatchHandler) Respond(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "request_id")
	if !ok {
		return
	}
	var req match.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.matchUseCase.RespondToRequest(c.Request.Context(), actor, requestID, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_id": updated.ID, "status": updated.Status})
}

// FinalAccept completes a match from the editor side
// @Summary Final accept
// @Tags editors
// @Security BearerAuth
// @Param request_id path string true "Request ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} ErrorResponse
// @Router /editors/requests/{request_id}/final-accept [post]
func (h *MatchHandler) FinalAccept(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "request_id")
	if !ok {
		return
	}

	matched, err := h.matchUseCase.FinalAccept(c.Request.Context(), actor, requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "match created successfully",
		"match_id": matched.ID,
		"match":    matched,
	})
}

func (h *MatchHandler) CreatorConfirm(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "request_id")
	if !ok {
		return
	}

	matched, err := h.matchUseCase.CreatorConfirm(c.Request.Context(), actor, requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match_id": matched.ID, "match": matched})
}

func (h *MatchHandler) CreatorPass(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "request_id")
	if !ok {
		return
	}

	updated, err := h.matchUseCase.CreatorPass(c.Request.Context(), actor, requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_id": updated.ID, "status": updated.Status})
}

// GetMatches lists confirmed matches with unread counts
// @Summary List matches
// @Tags matches
// @Security BearerAuth
// @Success 200 {array} match.MatchSummary
// @Router /matches [get]
func (h *MatchHandler) GetMatches(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	matches, err := h.matchUseCase.GetMatches(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// GetMatchDetails reveals both parties of a confirmed match
// @Summary Match details
// @Tags matches
// @Security BearerAuth
// @Param match_id path string true "Match ID"
// @Success 200 {object} match.MatchDetails
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /matches/{match_id} [get]
func (h *MatchHandler) GetMatchDetails(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	matchID, ok := parseIDParam(c, "match_id")
	if !ok {
		return
	}

	details, err := h.matchUseCase.GetMatchDetails(c.Request.Context(), actor, matchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *MatchHandler) GetStats(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	stats, err := h.matchUseCase.GetStats(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
