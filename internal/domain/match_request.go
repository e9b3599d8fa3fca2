package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	StatusPending  MatchStatus = "pending"
	StatusAccepted MatchStatus = "accepted"
	StatusMatched  MatchStatus = "matched"
	StatusPassed   MatchStatus = "passed"
)

// ParseMatchStatus accepts the legacy "confirmed" spelling as matched.
func ParseMatchStatus(s string) (MatchStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "creator_liked":
		return StatusPending, true
	case "accepted", "editor_accepted":
		return StatusAccepted, true
	case "matched", "confirmed":
		return StatusMatched, true
	case "passed":
		return StatusPassed, true
	}
	return "", false
}

// Scan reads a status column, mapping legacy spellings onto the current set.
func (s *MatchStatus) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into MatchStatus", src)
	}
	status, ok := ParseMatchStatus(raw)
	if !ok {
		return fmt.Errorf("unknown match status %q", raw)
	}
	*s = status
	return nil
}

func (s MatchStatus) IsTerminal() bool {
	return s == StatusMatched || s == StatusPassed
}

type MatchAction string

const (
	ActionAccept   MatchAction = "accept"
	ActionPass     MatchAction = "pass"
	ActionFinalize MatchAction = "finalize"
	ActionConfirm  MatchAction = "confirm"
)

type transitionKey struct {
	from   MatchStatus
	action MatchAction
	actor  Role
}

// transitions is the single transition table for match requests.
var transitions = map[transitionKey]MatchStatus{
	{StatusPending, ActionAccept, RoleEditor}:    StatusAccepted,
	{StatusPending, ActionPass, RoleEditor}:      StatusPassed,
	{StatusAccepted, ActionFinalize, RoleEditor}: StatusMatched,
	{StatusAccepted, ActionConfirm, RoleCreator}: StatusMatched,
	{StatusPending, ActionPass, RoleCreator}:     StatusPassed,
	{StatusAccepted, ActionPass, RoleCreator}:    StatusPassed,
}

// Transition returns the status reached by applying action as actor from
// the given status.
func Transition(from MatchStatus, action MatchAction, actor Role) (MatchStatus, bool) {
	to, ok := transitions[transitionKey{from, action, actor}]
	return to, ok
}

type MatchRequest struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	CreatorID        uuid.UUID   `json:"creator_id" db:"creator_id"`
	EditorID         uuid.UUID   `json:"editor_id" db:"editor_id"`
	ClipID           *uuid.UUID  `json:"clip_id" db:"clip_id"`
	Status           MatchStatus `json:"status" db:"status"`
	CreatorLikedAt   time.Time   `json:"creator_liked_at" db:"creator_liked_at"`
	EditorAcceptedAt *time.Time  `json:"editor_accepted_at" db:"editor_accepted_at"`
	FinalMatchedAt   *time.Time  `json:"final_matched_at" db:"final_matched_at"`
	Explanation      *string     `json:"match_explanation" db:"match_explanation"`
	Icebreakers      []string    `json:"icebreakers" db:"icebreakers"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`
}

// Apply stamps the timestamps belonging to the new status.
func (m *MatchRequest) Apply(to MatchStatus, at time.Time) {
	m.Status = to
	m.UpdatedAt = at
	switch to {
	case StatusAccepted:
		m.EditorAcceptedAt = &at
	case StatusMatched:
		m.FinalMatchedAt = &at
	}
}

// IsParty reports whether the given role profile id is the request's
// creator or editor on the matching side.
func (m *MatchRequest) IsParty(role Role, profileID uuid.UUID) bool {
	switch role {
	case RoleCreator:
		return m.CreatorID == profileID
	case RoleEditor:
		return m.EditorID == profileID
	}
	return false
}

type FeedAction string

const (
	FeedActionLiked  FeedAction = "liked"
	FeedActionPassed FeedAction = "passed"
)

// FeedHistory is an append-only record of a creator's decision on a feed card.
type FeedHistory struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatorID uuid.UUID  `json:"creator_id" db:"creator_id"`
	EditorID  uuid.UUID  `json:"editor_id" db:"editor_id"`
	ClipID    *uuid.UUID `json:"clip_id" db:"clip_id"`
	Action    FeedAction `json:"action" db:"action"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type ChatMessage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	MatchID   uuid.UUID `json:"match_id" db:"match_id"`
	SenderID  uuid.UUID `json:"sender_id" db:"sender_id"`
	Body      string    `json:"message" db:"body"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
