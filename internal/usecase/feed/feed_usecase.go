package feed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/creatorsync-backend/internal/repository"
	"github.com/google/uuid"
)

const (
	DefaultFeedSize = 10
	MaxFeedSize     = 50
)

// Shuffler permutes n elements through swap.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// ShuffleFunc adapts a function to Shuffler.
type ShuffleFunc func(n int, swap func(i, j int))

func (f ShuffleFunc) Shuffle(n int, swap func(i, j int)) { f(n, swap) }

// RandomShuffler uses the process-wide generator, safe for concurrent use.
var RandomShuffler Shuffler = ShuffleFunc(rand.Shuffle)

// ClipURLSigner turns a stored clip path into a playable URL.
type ClipURLSigner interface {
	PresignRead(ctx context.Context, key string) (string, error)
}

type FeedUseCase struct {
	creatorRepo  repository.CreatorRepository
	editorRepo   repository.EditorRepository
	clipRepo     repository.ClipRepository
	matchRepo    repository.MatchRequestRepository
	historyRepo  repository.FeedHistoryRepository
	shuffler     Shuffler
	signer       ClipURLSigner
	defaultLimit int
}

func NewFeedUseCase(
	creatorRepo repository.CreatorRepository,
	editorRepo repository.EditorRepository,
	clipRepo repository.ClipRepository,
	matchRepo repository.MatchRequestRepository,
	historyRepo repository.FeedHistoryRepository,
	shuffler Shuffler,
	signer ClipURLSigner,
	defaultLimit int,
) *FeedUseCase {
	if shuffler == nil {
		shuffler = RandomShuffler
	}
	if defaultLimit <= 0 || defaultLimit > MaxFeedSize {
		defaultLimit = DefaultFeedSize
	}
	return &FeedUseCase{
		creatorRepo:  creatorRepo,
		editorRepo:   editorRepo,
		clipRepo:     clipRepo,
		matchRepo:    matchRepo,
		historyRepo:  historyRepo,
		shuffler:     shuffler,
		signer:       signer,
		defaultLimit: defaultLimit,
	}
}

type FeedClip struct {
	ID          uuid.UUID `json:"id"`
	FilePath    string    `json:"file_path"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	URL         string    `json:"url,omitempty"`
}

// FeedItem is an anonymous editor card. It never carries the real name.
type FeedItem struct {
	EditorID        uuid.UUID `json:"editor_id"`
	AnonymousName   string    `json:"anonymous_name"`
	Bio             string    `json:"bio"`
	Tags            []string  `json:"tags"`
	ContentTypeTags []string  `json:"content_type_tags"`
	StyleTags       []string  `json:"style_tags"`
	Clip            FeedClip  `json:"clip"`
	AllClips        int       `json:"all_clips"`
	StyleMatchScore int       `json:"style_match_score"`
}

type candidate struct {
	editor *domain.EditorProfile
	clips  []*domain.Clip
	score  int
}

// GetFeed returns up to limit editors sharing the creator's content type that
// the creator has not liked, passed or requested yet. Editors are ranked by
// style overlap with ties broken randomly.
func (uc *FeedUseCase) GetFeed(ctx context.Context, creatorUserID uuid.UUID, limit int) ([]FeedItem, error) {
	switch {
	case limit <= 0:
		limit = uc.defaultLimit
	case limit > MaxFeedSize:
		limit = MaxFeedSize
	}

	creator, err := uc.creatorRepo.GetByUserID(ctx, creatorUserID)
	if err != nil {
		return nil, err
	}

	excluded, err := uc.excludedEditors(ctx, creator.ID)
	if err != nil {
		return nil, err
	}

	editors, err := uc.editorRepo.ListByContentType(ctx, creator.ContentType)
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate, 0, len(editors))
	for _, editor := range editors {
		if _, skip := excluded[editor.ID]; skip {
			continue
		}
		clips, err := uc.clipRepo.ListByEditor(ctx, editor.ID)
		if err != nil {
			return nil, err
		}
		if len(clips) == 0 {
			continue
		}
		candidates = append(candidates, candidate{
			editor: editor,
			clips:  clips,
			score:  editor.StyleMatchScore(creator.PreferredStyles),
		})
	}

	uc.shuffler.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	feed := make([]FeedItem, 0, len(candidates))
	for _, c := range candidates {
		feed = append(feed, uc.toFeedItem(ctx, c))
	}

	metrics.FeedSize.Observe(float64(len(feed)))
	slog.DebugContext(ctx, "feed built",
		slog.String("creator_id", creator.ID.String()),
		slog.Int("candidates", len(editors)),
		slog.Int("returned", len(feed)),
	)
	return feed, nil
}

func (uc *FeedUseCase) excludedEditors(ctx context.Context, creatorID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	requested, err := uc.matchRepo.EditorIDsByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requested editors: %w", err)
	}
	seen, err := uc.historyRepo.EditorIDsByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed history: %w", err)
	}

	excluded := make(map[uuid.UUID]struct{}, len(requested)+len(seen))
	for _, id := range requested {
		excluded[id] = struct{}{}
	}
	for _, id := range seen {
		excluded[id] = struct{}{}
	}
	return excluded, nil
}

func (uc *FeedUseCase) toFeedItem(ctx context.Context, c candidate) FeedItem {
	first := c.clips[0]
	clip := FeedClip{
		ID:          first.ID,
		FilePath:    first.FilePath,
		Title:       first.Title,
		Description: first.Description,
	}
	if uc.signer != nil {
		url, err := uc.signer.PresignRead(ctx, first.FilePath)
		if err != nil {
			slog.WarnContext(ctx, "failed to presign clip", slog.String("clip_id", first.ID.String()), slog.Any("error", err))
		} else {
			clip.URL = url
		}
	}

	return FeedItem{
		EditorID:        c.editor.ID,
		AnonymousName:   c.editor.AnonymousName,
		Bio:             c.editor.Bio,
		Tags:            c.editor.TagNames(),
		ContentTypeTags: c.editor.TagsOfType(domain.TagTypeContentType),
		StyleTags:       c.editor.TagsOfType(domain.TagTypeStyle),
		Clip:            clip,
		AllClips:        len(c.clips),
		StyleMatchScore: c.score,
	}
}
