package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_aid_connect/internal/models"
)

type session struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// SessionRepository хранит сессии в памяти. Истекшие удаляются при обращении
// и при каждом создании новой сессии.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]session
	now      func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]session),
		now:      time.Now,
	}
}

func (r *SessionRepository) Create(_ context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for t, s := range r.sessions {
		if !now.Before(s.expiresAt) {
			delete(r.sessions, t)
		}
	}
	r.sessions[token] = session{userID: userID, expiresAt: now.Add(ttl)}
	return nil
}

func (r *SessionRepository) Get(_ context.Context, token string) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return uuid.Nil, models.ErrInvalidToken
	}
	if !r.now().Before(s.expiresAt) {
		delete(r.sessions, token)
		return uuid.Nil, models.ErrInvalidToken
	}
	return s.userID, nil
}

func (r *SessionRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
	return nil
}

func (r *SessionRepository) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, s := range r.sessions {
		if s.userID == userID {
			delete(r.sessions, token)
		}
	}
	return nil
}
