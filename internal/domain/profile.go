package domain

import (
	"time"

	"github.com/google/uuid"
)

type TagType string

const (
	TagTypeContentType TagType = "content_type"
	TagTypeStyle       TagType = "style"
)

type CreatorProfile struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	DisplayName     string    `json:"display_name" db:"display_name"`
	Bio             string    `json:"bio" db:"bio"`
	WhatStream      string    `json:"what_stream" db:"what_stream"`
	WantEditor      string    `json:"want_editor" db:"want_editor"`
	ContentType     string    `json:"content_type" db:"content_type"`
	PreferredStyles []string  `json:"preferred_styles" db:"preferred_styles"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type EditorTag struct {
	Name string  `json:"name" db:"tag_name"`
	Type TagType `json:"type" db:"tag_type"`
}

// EditorProfile holds the editor's real name, which must only be exposed to
// the counterpart of a matched request.
type EditorProfile struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	UserID        uuid.UUID   `json:"user_id" db:"user_id"`
	AnonymousName string      `json:"anonymous_name" db:"anonymous_name"`
	RealName      string      `json:"-" db:"real_name"`
	Bio           string      `json:"bio" db:"bio"`
	Availability  string      `json:"availability" db:"availability"`
	Tags          []EditorTag `json:"tags" db:"-"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// EditorIdentity is an editor profile with the real name exposed.
type EditorIdentity struct {
	*EditorProfile
	RealName string `json:"real_name"`
}

func (e *EditorProfile) Reveal() *EditorIdentity {
	return &EditorIdentity{EditorProfile: e, RealName: e.RealName}
}

func (e *EditorProfile) TagsOfType(t TagType) []string {
	out := make([]string, 0, len(e.Tags))
	for _, tag := range e.Tags {
		if tag.Type == t {
			out = append(out, tag.Name)
		}
	}
	return out
}

func (e *EditorProfile) TagNames() []string {
	out := make([]string, 0, len(e.Tags))
	for _, tag := range e.Tags {
		out = append(out, tag.Name)
	}
	return out
}

func (e *EditorProfile) HasContentType(contentType string) bool {
	for _, tag := range e.Tags {
		if tag.Type == TagTypeContentType && tag.Name == contentType {
			return true
		}
	}
	return false
}

// StyleMatchScore counts the editor's style tags found in styles.
func (e *EditorProfile) StyleMatchScore(styles []string) int {
	if len(styles) == 0 {
		return 0
	}
	wanted := make(map[string]struct{}, len(styles))
	for _, s := range styles {
		wanted[s] = struct{}{}
	}
	score := 0
	seen := make(map[string]struct{})
	for _, tag := range e.Tags {
		if tag.Type != TagTypeStyle {
			continue
		}
		if _, dup := seen[tag.Name]; dup {
			continue
		}
		seen[tag.Name] = struct{}{}
		if _, ok := wanted[tag.Name]; ok {
			score++
		}
	}
	return score
}

// BuildEditorTags partitions content types and styles into tag rows.
func BuildEditorTags(contentTypes, styles []string) []EditorTag {
	tags := make([]EditorTag, 0, len(contentTypes)+len(styles))
	for _, name := range contentTypes {
		tags = append(tags, EditorTag{Name: name, Type: TagTypeContentType})
	}
	for _, name := range styles {
		tags = append(tags, EditorTag{Name: name, Type: TagTypeStyle})
	}
	return tags
}

type Clip struct {
	ID          uuid.UUID `json:"id" db:"id"`
	EditorID    uuid.UUID `json:"editor_id" db:"editor_id"`
	FilePath    string    `json:"file_path" db:"file_path"`
	Title       *string   `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	OrderIndex  int       `json:"order_index" db:"order_index"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
