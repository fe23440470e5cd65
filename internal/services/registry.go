package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"finny/internal/cache"
)

// SessionRegistry maps opaque tokens to live sessions. Idle sessions expire
// after the configured TTL.
type SessionRegistry struct {
	sessions *cache.LRUCache[*Session]
}

func NewSessionRegistry(maxSessions int, idleTTL time.Duration) *SessionRegistry {
	return &SessionRegistry{sessions: cache.NewLRUCache[*Session](maxSessions, idleTTL)}
}

// Create stores s under a fresh random token and returns the token.
func (r *SessionRegistry) Create(s *Session) string {
	token := uuid.NewString()
	r.sessions.Set(token, s)
	return token
}

func (r *SessionRegistry) Get(token string) (*Session, bool) {
	if token == "" {
		return nil, false
	}
	return r.sessions.Get(token)
}

// Delete logs the session out and forgets the token. Unknown tokens are ignored.
func (r *SessionRegistry) Delete(ctx context.Context, token string) {
	if s, ok := r.sessions.Get(token); ok {
		s.Logout(ctx)
	}
	r.sessions.Delete(token)
}

func (r *SessionRegistry) Len() int {
	return r.sessions.Size()
}

// Cleaner exposes the backing cache for periodic expiry sweeps.
func (r *SessionRegistry) Cleaner() cache.Cleaner {
	return r.sessions
}
