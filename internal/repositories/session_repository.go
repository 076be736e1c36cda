package repositories

import (
	"context"
	"time"
	"tripwizard/internal/models/session_models"
	"tripwizard/pkg/memcache"
	"tripwizard/pkg/utils"
)

// SessionRepository persists wizard sessions between requests.
// Load returns utils.ErrSessionNotFound for unknown or expired ids. Both Save
// and Load count as activity and restart the session's TTL.
type SessionRepository interface {
	Save(ctx context.Context, session *session_models.Session) error
	Load(ctx context.Context, sessionID string) (*session_models.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// MemorySessionRepository keeps sessions in process memory. It stores and hands
// out clones so a caller holding a *Session never aliases the stored value.
type MemorySessionRepository struct {
	store *memcache.TTLStore[*session_models.Session]
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{store: memcache.NewTTLStore[*session_models.Session](ttl)}
}

func NewMemorySessionRepositoryFromStore(store *memcache.TTLStore[*session_models.Session]) *MemorySessionRepository {
	return &MemorySessionRepository{store: store}
}

func (r *MemorySessionRepository) Save(_ context.Context, session *session_models.Session) error {
	r.store.Set(session.ID(), session.Clone())
	return nil
}

func (r *MemorySessionRepository) Load(_ context.Context, sessionID string) (*session_models.Session, error) {
	s, ok := r.store.GetAndTouch(sessionID)
	if !ok {
		return nil, utils.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, sessionID string) error {
	r.store.Delete(sessionID)
	return nil
}

// Sweep drops expired sessions; called periodically by the session module.
func (r *MemorySessionRepository) Sweep() int {
	return r.store.Sweep()
}
