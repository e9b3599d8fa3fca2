package profile

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/infrastructure/storage"
	"github.com/gdugdh24/creatorsync-backend/internal/repository"
	"github.com/google/uuid"
)

// ClipStorage issues presigned URLs for clip objects.
type ClipStorage interface {
	PresignUpload(ctx context.Context, editorID uuid.UUID, fileName, contentType string) (*storage.UploadTarget, error)
	OwnsKey(editorID uuid.UUID, key string) bool
}

type ProfileUseCase struct {
	creatorRepo repository.CreatorRepository
	editorRepo  repository.EditorRepository
	clipRepo    repository.ClipRepository
	storage     ClipStorage
}

// NewProfileUseCase accepts a nil storage; upload URLs then fail with
// domain.ErrStorageUnavailable.
func NewProfileUseCase(
	creatorRepo repository.CreatorRepository,
	editorRepo repository.EditorRepository,
	clipRepo repository.ClipRepository,
	storage ClipStorage,
) *ProfileUseCase {
	return &ProfileUseCase{
		creatorRepo: creatorRepo,
		editorRepo:  editorRepo,
		clipRepo:    clipRepo,
		storage:     storage,
	}
}

// CreatorProfileRequest is used for both create and update.
type CreatorProfileRequest struct {
	DisplayName     string   `json:"display_name" binding:"required,notblank,max=100"`
	Bio             string   `json:"bio" binding:"required,notblank,max=1000"`
	WhatStream      string   `json:"what_stream" binding:"required,notblank,max=500"`
	WantEditor      string   `json:"want_editor" binding:"required,notblank,max=500"`
	ContentType     string   `json:"content_type" binding:"required,notblank,max=50"`
	PreferredStyles []string `json:"preferred_styles" binding:"omitempty,max=20,dive,notblank,max=50"`
}

type CreateEditorRequest struct {
	AnonymousName string   `json:"anonymous_name" binding:"required,notblank,max=100"`
	RealName      string   `json:"real_name" binding:"omitempty,max=100"`
	Bio           string   `json:"bio" binding:"omitempty,max=1000"`
	Availability  string   `json:"availability" binding:"omitempty,max=100"`
	ContentTypes  []string `json:"content_types" binding:"omitempty,max=20,dive,notblank,max=50"`
	Styles        []string `json:"styles" binding:"omitempty,max=20,dive,notblank,max=50"`
}

// UpdateEditorRequest replaces a tag type only when its list is present.
type UpdateEditorRequest struct {
	RealName     *string   `json:"real_name" binding:"omitempty,max=100"`
	Bio          *string   `json:"bio" binding:"omitempty,max=1000"`
	Availability *string   `json:"availability" binding:"omitempty,max=100"`
	ContentTypes *[]string `json:"content_types" binding:"omitempty,max=20,dive,notblank,max=50"`
	Styles       *[]string `json:"styles" binding:"omitempty,max=20,dive,notblank,max=50"`
}

type AddClipRequest struct {
	FilePath    string  `json:"file_path" binding:"required,notblank,max=500"`
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type UploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required,notblank,max=255"`
	ContentType string `json:"content_type" binding:"required,oneof=video/mp4 video/quicktime video/webm video/x-msvideo"`
}

// normalizeTags trims names and drops blanks and duplicates, keeping order.
func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, name := range in {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func (uc *ProfileUseCase) CreateCreatorProfile(ctx context.Context, userID uuid.UUID, req *CreatorProfileRequest) (*domain.CreatorProfile, error) {
	creator := &domain.CreatorProfile{UserID: userID}
	applyCreatorFields(creator, req)

	if err := uc.creatorRepo.Create(ctx, creator); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "creator profile created", slog.String("creator_id", creator.ID.String()))
	return creator, nil
}

func (uc *ProfileUseCase) UpdateCreatorProfile(ctx context.Context, userID uuid.UUID, req *CreatorProfileRequest) (*domain.CreatorProfile, error) {
	creator, err := uc.creatorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	applyCreatorFields(creator, req)

	if err := uc.creatorRepo.Update(ctx, creator); err != nil {
		return nil, err
	}
	return creator, nil
}

func applyCreatorFields(creator *domain.CreatorProfile, req *CreatorProfileRequest) {
	creator.DisplayName = strings.TrimSpace(req.DisplayName)
	creator.Bio = strings.TrimSpace(req.Bio)
	creator.WhatStream = strings.TrimSpace(req.WhatStream)
	creator.WantEditor = strings.TrimSpace(req.WantEditor)
	creator.ContentType = strings.TrimSpace(req.ContentType)
	creator.PreferredStyles = normalizeTags(req.PreferredStyles)
}

func (uc *ProfileUseCase) GetCreatorProfile(ctx context.Context, userID uuid.UUID) (*domain.CreatorProfile, error) {
	return uc.creatorRepo.GetByUserID(ctx, userID)
}

func (uc *ProfileUseCase) CreateEditorProfile(ctx context.Context, userID uuid.UUID, req *CreateEditorRequest) (*domain.EditorIdentity, error) {
	editor := &domain.EditorProfile{
		UserID:        userID,
		AnonymousName: strings.TrimSpace(req.AnonymousName),
		RealName:      strings.TrimSpace(req.RealName),
		Bio:           strings.TrimSpace(req.Bio),
		Availability:  strings.TrimSpace(req.Availability),
		Tags:          domain.BuildEditorTags(normalizeTags(req.ContentTypes), normalizeTags(req.Styles)),
	}

	if err := uc.editorRepo.Create(ctx, editor); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "editor profile created", slog.String("editor_id", editor.ID.String()))
	return editor.Reveal(), nil
}

func (uc *ProfileUseCase) UpdateEditorProfile(ctx context.Context, userID uuid.UUID, req *UpdateEditorRequest) (*domain.EditorIdentity, error) {
	editor, err := uc.editorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.RealName != nil {
		editor.RealName = strings.TrimSpace(*req.RealName)
	}
	if req.Bio != nil {
		editor.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Availability != nil {
		editor.Availability = strings.TrimSpace(*req.Availability)
	}

	contentTypes := editor.TagsOfType(domain.TagTypeContentType)
	if req.ContentTypes != nil {
		contentTypes = normalizeTags(*req.ContentTypes)
	}
	styles := editor.TagsOfType(domain.TagTypeStyle)
	if req.Styles != nil {
		styles = normalizeTags(*req.Styles)
	}
	editor.Tags = domain.BuildEditorTags(contentTypes, styles)

	if err := uc.editorRepo.Update(ctx, editor); err != nil {
		return nil, err
	}
	return editor.Reveal(), nil
}

// GetEditorProfile returns the caller's own profile, real name included.
func (uc *ProfileUseCase) GetEditorProfile(ctx context.Context, userID uuid.UUID) (*domain.EditorIdentity, error) {
	editor, err := uc.editorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return editor.Reveal(), nil
}

// ownsClipKey checks a clip path against the editor's upload folder. Without
// object storage the default folder layout still applies.
func (uc *ProfileUseCase) ownsClipKey(editorID uuid.UUID, key string) bool {
	if uc.storage != nil {
		return uc.storage.OwnsKey(editorID, key)
	}
	return storage.KeyBelongsTo(storage.DefaultPrefix, editorID, key)
}

// AddClip registers clip metadata; the next order index is assigned by the store.
// The path must be inside the folder UploadURL issues for this editor.
func (uc *ProfileUseCase) AddClip(ctx context.Context, userID uuid.UUID, req *AddClipRequest) (*domain.Clip, error) {
	editor, err := uc.editorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	filePath := strings.TrimSpace(req.FilePath)
	if !uc.ownsClipKey(editor.ID, filePath) {
		return nil, domain.ErrInvalidClipPath
	}

	clip := &domain.Clip{
		EditorID:    editor.ID,
		FilePath:    filePath,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := uc.clipRepo.Create(ctx, clip); err != nil {
		return nil, err
	}
	return clip, nil
}

func (uc *ProfileUseCase) ListClips(ctx context.Context, userID uuid.UUID) ([]*domain.Clip, error) {
	editor, err := uc.editorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	clips, err := uc.clipRepo.ListByEditor(ctx, editor.ID)
	if err != nil {
		return nil, err
	}
	if clips == nil {
		clips = []*domain.Clip{}
	}
	return clips, nil
}

// UploadURL presigns a PUT for a new clip object under the editor's prefix.
// The returned file path is what AddClip expects afterwards.
func (uc *ProfileUseCase) UploadURL(ctx context.Context, userID uuid.UUID, req *UploadURLRequest) (*storage.UploadTarget, error) {
	if uc.storage == nil {
		return nil, domain.ErrStorageUnavailable
	}
	editor, err := uc.editorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	target, err := uc.storage.PresignUpload(ctx, editor.ID, req.FileName, req.ContentType)
	if err != nil {
		return nil, domain.Unavailable("presign clip upload", err)
	}
	return target, nil
}
