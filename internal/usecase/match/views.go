package match

import (
	"context"
	"sort"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/google/uuid"
)

// CreatorRequestView is a sent request with the anonymous editor card.
type CreatorRequestView struct {
	RequestID        uuid.UUID          `json:"request_id"`
	Status           domain.MatchStatus `json:"status"`
	CreatorLikedAt   time.Time          `json:"creator_liked_at"`
	EditorAcceptedAt *time.Time         `json:"editor_accepted_at"`
	FinalMatchedAt   *time.Time         `json:"final_matched_at"`
	CreatedAt        time.Time          `json:"created_at"`
	EditorID         uuid.UUID          `json:"editor_id"`
	AnonymousName    string             `json:"anonymous_name"`
	Bio              string             `json:"bio"`
	Tags             []string           `json:"tags"`
}

// EditorRequestView is an incoming request with the creator summary.
type EditorRequestView struct {
	RequestID       uuid.UUID          `json:"request_id"`
	Status          domain.MatchStatus `json:"status"`
	CreatorLikedAt  time.Time          `json:"creator_liked_at"`
	CreatedAt       time.Time          `json:"created_at"`
	ClipID          *uuid.UUID         `json:"clip_id"`
	CreatorID       uuid.UUID          `json:"creator_id"`
	DisplayName     string             `json:"display_name"`
	Bio             string             `json:"bio"`
	WhatStream      string             `json:"what_stream"`
	WantEditor      string             `json:"want_editor"`
	ContentType     string             `json:"content_type"`
	PreferredStyles []string           `json:"preferred_styles"`
}

// MatchSummary is one entry of the caller's match list. Exactly one of
// Editor or Creator is set, the counterpart of the caller.
type MatchSummary struct {
	MatchID        uuid.UUID              `json:"match_id"`
	Status         domain.MatchStatus     `json:"status"`
	FinalMatchedAt *time.Time             `json:"final_matched_at"`
	Explanation    *string                `json:"match_explanation"`
	Icebreakers    []string               `json:"icebreakers"`
	UnreadCount    int                    `json:"unread_count"`
	Editor         *domain.EditorIdentity `json:"editor,omitempty"`
	Clips          []*domain.Clip         `json:"clips,omitempty"`
	Creator        *domain.CreatorProfile `json:"creator,omitempty"`
}

type MatchInfo struct {
	ID          uuid.UUID          `json:"id"`
	Status      domain.MatchStatus `json:"status"`
	MatchedAt   *time.Time         `json:"matched_at"`
	Explanation *string            `json:"match_explanation"`
	Icebreakers []string           `json:"icebreakers"`
}

// RevealedEditor is the full editor identity shown once matched.
type RevealedEditor struct {
	*domain.EditorIdentity
	TagNames     []string       `json:"tag_names"`
	ContentTypes []string       `json:"content_types"`
	Styles       []string       `json:"styles"`
	Clips        []*domain.Clip `json:"clips"`
}

type MatchDetails struct {
	Match   MatchInfo              `json:"match"`
	Creator *domain.CreatorProfile `json:"creator"`
	Editor  RevealedEditor         `json:"editor"`
}

// Stats counts requests per status. Editors see pending as incoming.
type Stats struct {
	Pending         *int `json:"pending,omitempty"`
	IncomingPending *int `json:"incoming_pending,omitempty"`
	Accepted        int  `json:"accepted"`
	Matched         int  `json:"matched"`
	Passed          int  `json:"passed"`
}

func (uc *MatchUseCase) ListCreatorRequests(ctx context.Context, actor Actor) ([]CreatorRequestView, error) {
	if err := requireRole(actor, domain.RoleCreator); err != nil {
		return nil, err
	}
	creatorID, err := uc.profileID(ctx, actor)
	if err != nil {
		return nil, err
	}
	requests, err := uc.matchRepo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	views := make([]CreatorRequestView, 0, len(requests))
	for _, req := range requests {
		editor, err := uc.editorRepo.GetByID(ctx, req.EditorID)
		if err != nil {
			return nil, err
		}
		views = append(views, CreatorRequestView{
			RequestID:        req.ID,
			Status:           req.Status,
			CreatorLikedAt:   req.CreatorLikedAt,
			EditorAcceptedAt: req.EditorAcceptedAt,
			FinalMatchedAt:   req.FinalMatchedAt,
			CreatedAt:        req.CreatedAt,
			EditorID:         editor.ID,
			AnonymousName:    editor.AnonymousName,
			Bio:              editor.Bio,
			Tags:             editor.TagNames(),
		})
	}
	return views, nil
}

// ListEditorRequests returns requests still awaiting a decision from either side.
func (uc *MatchUseCase) ListEditorRequests(ctx context.Context, actor Actor) ([]EditorRequestView, error) {
	if err := requireRole(actor, domain.RoleEditor); err != nil {
		return nil, err
	}
	editorID, err := uc.profileID(ctx, actor)
	if err != nil {
		return nil, err
	}
	requests, err := uc.matchRepo.ListByEditor(ctx, editorID, domain.StatusPending, domain.StatusAccepted)
	if err != nil {
		return nil, err
	}

	views := make([]EditorRequestView, 0, len(requests))
	for _, req := range requests {
		creator, err := uc.creatorRepo.GetByID(ctx, req.CreatorID)
		if err != nil {
			return nil, err
		}
		views = append(views, EditorRequestView{
			RequestID:       req.ID,
			Status:          req.Status,
			CreatorLikedAt:  req.CreatorLikedAt,
			CreatedAt:       req.CreatedAt,
			ClipID:          req.ClipID,
			CreatorID:       creator.ID,
			DisplayName:     creator.DisplayName,
			Bio:             creator.Bio,
			WhatStream:      creator.WhatStream,
			WantEditor:      creator.WantEditor,
			ContentType:     creator.ContentType,
			PreferredStyles: nonNil(creator.PreferredStyles),
		})
	}
	return views, nil
}

// GetMatches lists the caller's matched requests, most recently matched first.
func (uc *MatchUseCase) GetMatches(ctx context.Context, actor Actor) ([]MatchSummary, error) {
	matched, err := uc.matchedRequests(ctx, actor)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matchedAt(matched[i]).After(matchedAt(matched[j]))
	})

	ids := make([]uuid.UUID, 0, len(matched))
	for _, req := range matched {
		ids = append(ids, req.ID)
	}
	unread, err := uc.messageRepo.CountUnread(ctx, ids, actor.UserID)
	if err != nil {
		return nil, err
	}

	summaries := make([]MatchSummary, 0, len(matched))
	for _, req := range matched {
		summary := MatchSummary{
			MatchID:        req.ID,
			Status:         req.Status,
			FinalMatchedAt: req.FinalMatchedAt,
			Explanation:    req.Explanation,
			Icebreakers:    nonNil(req.Icebreakers),
			UnreadCount:    unread[req.ID],
		}
		if actor.Role == domain.RoleCreator {
			editor, err := uc.editorRepo.GetByID(ctx, req.EditorID)
			if err != nil {
				return nil, err
			}
			clips, err := uc.clipRepo.ListByEditor(ctx, editor.ID)
			if err != nil {
				return nil, err
			}
			summary.Editor = editor.Reveal()
			summary.Clips = clips
		} else {
			creator, err := uc.creatorRepo.GetByID(ctx, req.CreatorID)
			if err != nil {
				return nil, err
			}
			summary.Creator = creator
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (uc *MatchUseCase) matchedRequests(ctx context.Context, actor Actor) ([]*domain.MatchRequest, error) {
	profileID, err := uc.profileID(ctx, actor)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleCreator {
		return uc.matchRepo.ListByCreator(ctx, profileID, domain.StatusMatched)
	}
	return uc.matchRepo.ListByEditor(ctx, profileID, domain.StatusMatched)
}

func matchedAt(req *domain.MatchRequest) time.Time {
	if req.FinalMatchedAt != nil {
		return *req.FinalMatchedAt
	}
	return req.UpdatedAt
}

// GetMatchDetails reveals both identities to a party of a matched request.
func (uc *MatchUseCase) GetMatchDetails(ctx context.Context, actor Actor, matchID uuid.UUID) (*MatchDetails, error) {
	req, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	if req.Status != domain.StatusMatched {
		return nil, domain.ErrMatchNotConfirmed
	}

	profileID, err := uc.profileID(ctx, actor)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.ErrAccessDenied
		}
		return nil, err
	}
	if !req.IsParty(actor.Role, profileID) {
		return nil, domain.ErrAccessDenied
	}

	creator, err := uc.creatorRepo.GetByID(ctx, req.CreatorID)
	if err != nil {
		return nil, err
	}
	editor, err := uc.editorRepo.GetByID(ctx, req.EditorID)
	if err != nil {
		return nil, err
	}
	clips, err := uc.clipRepo.ListByEditor(ctx, editor.ID)
	if err != nil {
		return nil, err
	}

	return &MatchDetails{
		Match: MatchInfo{
			ID:          req.ID,
			Status:      req.Status,
			MatchedAt:   req.FinalMatchedAt,
			Explanation: req.Explanation,
			Icebreakers: nonNil(req.Icebreakers),
		},
		Creator: creator,
		Editor: RevealedEditor{
			EditorIdentity: editor.Reveal(),
			TagNames:       editor.TagNames(),
			ContentTypes:   editor.TagsOfType(domain.TagTypeContentType),
			Styles:         editor.TagsOfType(domain.TagTypeStyle),
			Clips:          clips,
		},
	}, nil
}

func (uc *MatchUseCase) GetStats(ctx context.Context, actor Actor) (*Stats, error) {
	profileID, err := uc.profileID(ctx, actor)
	if err != nil {
		return nil, err
	}

	var requests []*domain.MatchRequest
	if actor.Role == domain.RoleCreator {
		requests, err = uc.matchRepo.ListByCreator(ctx, profileID)
	} else {
		requests, err = uc.matchRepo.ListByEditor(ctx, profileID)
	}
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	pending := 0
	for _, req := range requests {
		switch req.Status {
		case domain.StatusPending:
			pending++
		case domain.StatusAccepted:
			stats.Accepted++
		case domain.StatusMatched:
			stats.Matched++
		case domain.StatusPassed:
			stats.Passed++
		}
	}
	if actor.Role == domain.RoleCreator {
		stats.Pending = &pending
	} else {
		stats.IncomingPending = &pending
	}
	return stats, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
