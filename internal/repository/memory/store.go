// Package memory implements the repository interfaces on process memory. It
// backs STORAGE_BACKEND=memory and the use case tests.
package memory

import (
	"sync"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/repository"
	"github.com/google/uuid"
)

// Store holds every table behind one lock so multi-table writes stay atomic.
type Store struct {
	mu sync.RWMutex

	users        map[uuid.UUID]*domain.User
	sessions     map[string]*domain.Session
	creators     map[uuid.UUID]*domain.CreatorProfile
	editors      map[uuid.UUID]*domain.EditorProfile
	editorOrder  []uuid.UUID
	clips        map[uuid.UUID]*domain.Clip
	requests     map[uuid.UUID]*domain.MatchRequest
	requestOrder []uuid.UUID
	history      []domain.FeedHistory
	messages     []*domain.ChatMessage
	lastMessage  time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]*domain.User),
		sessions: make(map[string]*domain.Session),
		creators: make(map[uuid.UUID]*domain.CreatorProfile),
		editors:  make(map[uuid.UUID]*domain.EditorProfile),
		clips:    make(map[uuid.UUID]*domain.Clip),
		requests: make(map[uuid.UUID]*domain.MatchRequest),
	}
}

func (s *Store) Users() repository.UserRepository                 { return &userRepository{s} }
func (s *Store) Sessions() repository.SessionRepository           { return &sessionRepository{s} }
func (s *Store) Creators() repository.CreatorRepository           { return &creatorRepository{s} }
func (s *Store) Editors() repository.EditorRepository             { return &editorRepository{s} }
func (s *Store) Clips() repository.ClipRepository                 { return &clipRepository{s} }
func (s *Store) MatchRequests() repository.MatchRequestRepository { return &matchRequestRepository{s} }
func (s *Store) FeedHistory() repository.FeedHistoryRepository    { return &feedHistoryRepository{s} }
func (s *Store) Messages() repository.MessageRepository           { return &messageRepository{s} }

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneCreator(c *domain.CreatorProfile) *domain.CreatorProfile {
	out := *c
	out.PreferredStyles = cloneStrings(c.PreferredStyles)
	return &out
}

func cloneEditor(e *domain.EditorProfile) *domain.EditorProfile {
	out := *e
	out.Tags = append([]domain.EditorTag(nil), e.Tags...)
	return &out
}

func cloneRequest(m *domain.MatchRequest) *domain.MatchRequest {
	out := *m
	out.Icebreakers = cloneStrings(m.Icebreakers)
	return &out
}
