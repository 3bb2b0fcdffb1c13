package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"genchat/internal/domain"
)

// MemorySessionRepository guarda sesiones en proceso. Se usa en tests, en la CLI y con STORE_BACKEND=memory.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	order    []string // ids en orden de creacion
	now      func() time.Time
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*domain.Session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemorySessionRepository) Create(ctx context.Context, title string, first domain.Turn) (string, error) {
	if err := first.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", storageError("create session", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	r.sessions[id] = &domain.Session{
		ID:        id,
		Title:     title,
		CreatedAt: r.now(),
		Messages:  first.Messages(),
	}
	r.order = append(r.order, id)
	return id, nil
}

func (r *MemorySessionRepository) AppendTurn(ctx context.Context, id string, turn domain.Turn) error {
	if err := turn.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return storageError("append turn", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	session.Messages = append(session.Messages, turn.Messages()...)
	return nil
}

func (r *MemorySessionRepository) GetByID(ctx context.Context, id string) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, storageError("get session", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, ErrSessionNotFound
	}
	out := *session
	out.Messages = append([]domain.Message(nil), session.Messages...)
	return out, nil
}

func (r *MemorySessionRepository) List(ctx context.Context) ([]domain.SessionSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("list sessions", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.SessionSummary, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		s := r.sessions[r.order[i]]
		out = append(out, domain.SessionSummary{ID: s.ID, Title: s.Title})
	}
	return out, nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return storageError("delete session", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return nil
	}
	delete(r.sessions, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}
