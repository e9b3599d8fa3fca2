package handler

import (
	"net/http"

	"github.com/gdugdh24/creatorsync-backend/internal/usecase/profile"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

// CreateCreatorProfile handles creator onboarding
// @Summary Create creator profile
// @Tags creators
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.CreatorProfileRequest true "Profile"
// @Success 201 {object} domain.CreatorProfile
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /creators/profile [post]
func (h *ProfileHandler) CreateCreatorProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req profile.CreatorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	creator, err := h.profileUseCase.CreateCreatorProfile(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, creator)
}

// UpdateCreatorProfile replaces the caller's creator profile
// @Summary Update creator profile
// @Tags creators
// @Security BearerAuth
// @Router /creators/profile [put]
func (h *ProfileHandler) UpdateCreatorProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req profile.CreatorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	creator, err := h.profileUseCase.UpdateCreatorProfile(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, creator)
}

func (h *ProfileHandler) GetCreatorProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	creator, err := h.profileUseCase.GetCreatorProfile(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, creator)
}

// CreateEditorProfile handles editor onboarding
// @Summary Create editor profile
// @Tags editors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.CreateEditorRequest true "Profile"
// @Success 201 {object} domain.EditorIdentity
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /editors/profile [post]
func (h *ProfileHandler) CreateEditorProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req profile.CreateEditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	editor, err := h.profileUseCase.CreateEditorProfile(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, editor)
}

// UpdateEditorProfile updates the caller's editor profile
// @Summary Update editor profile
// @Tags editors
// @Security BearerAuth
// @Router /editors/profile [put]
func (h *ProfileHandler) UpdateEditorProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req profile.UpdateEditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	editor, err := h.profileUseCase.UpdateEditorProfile(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, editor)
}

func (h *ProfileHandler) GetEditorProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	editor, err := h.profileUseCase.GetEditorProfile(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, editor)
}

// AddClip registers an uploaded clip
// @Summary Add clip
// @Tags editors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.AddClipRequest true "Clip metadata"
// @Success 201 {object} domain.Clip
// @Router /editors/clips [post]
func (h *ProfileHandler) AddClip(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req profile.AddClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	clip, err := h.profileUseCase.AddClip(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, clip)
}

func (h *ProfileHandler) ListClips(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	clips, err := h.profileUseCase.ListClips(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clips": clips})
}

// ClipUploadURL presigns a direct upload to object storage
// @Summary Presign clip upload
// @Tags editors
// @Security BearerAuth
// @Success 200 {object} storage.UploadTarget
// @Failure 503 {object} ErrorResponse
// @Router /editors/clips/upload-url [post]
func (h *ProfileHandler) ClipUploadURL(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req profile.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	target, err := h.profileUseCase.UploadURL(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, target)
}
