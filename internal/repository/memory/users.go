package memory

import (
	"context"
	"strings"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/google/uuid"
)

type userRepository struct{ s *Store }

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.insertUser(user)
}

func (r *userRepository) CreateWithSession(_ context.Context, user *domain.User, session *domain.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.insertUser(user); err != nil {
		return err
	}
	session.UserID = user.ID
	r.s.insertSession(session)
	return nil
}

// insertUser requires s.mu held for writing.
func (s *Store) insertUser(user *domain.User) error {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *Store) insertSession(session *domain.Session) {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	stored := *session
	s.sessions[session.TokenHash] = &stored
}

func (r *userRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type sessionRepository struct{ s *Store }

func (r *sessionRepository) Create(_ context.Context, session *domain.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.insertSession(session)
	return nil
}

func (r *sessionRepository) GetByToken(_ context.Context, tokenHash string) (*domain.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	session, ok := r.s.sessions[tokenHash]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	out := *session
	return &out, nil
}

func (r *sessionRepository) DeleteByToken(_ context.Context, tokenHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sessions[tokenHash]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.s.sessions, tokenHash)
	return nil
}
