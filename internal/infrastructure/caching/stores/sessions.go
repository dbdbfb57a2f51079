// Package stores provides in-memory stores for process-local state
package stores

import (
	"sync"
	"time"

	"github.com/rewater/rewater-go/internal/domain/session"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/rewater/rewater-go/internal/infrastructure/security"
)

// SessionsStore keeps authenticated sessions in memory with idle expiry.
type SessionsStore struct {
	sessions map[string]*session.Session
	ttl      time.Duration
	now      func() time.Time
	mu       sync.RWMutex
	logger   *logging.ChanneledLogger
}

// NewSessionsStore creates a new sessions store. A zero ttl disables expiry.
func NewSessionsStore(ttl time.Duration, logger *logging.ChanneledLogger) *SessionsStore {
	if logger != nil {
		logger.Auth().Info("Initializing sessions store", "ttl", ttl)
	}
	return &SessionsStore{
		sessions: make(map[string]*session.Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// SetClock overrides the store's clock.
func (ss *SessionsStore) SetClock(now func() time.Time) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.now = now
}

// Create starts a logged-in session for userID.
func (ss *SessionsStore) Create(userID, fullName string) *session.Session {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := ss.now()
	s := &session.Session{
		ID:        security.GenerateULID(),
		UserID:    userID,
		FullName:  fullName,
		LoggedIn:  true,
		CreatedAt: now,
		LastSeen:  now,
	}
	ss.sessions[s.ID] = s

	if ss.logger != nil {
		ss.logger.Auth().Debug("Session created", "sessionId", s.ID, "userId", userID)
	}
	return copySession(s)
}

// Touch returns the session and refreshes its last-seen time. Missing and
// expired sessions yield false; expired ones are removed.
func (ss *SessionsStore) Touch(id string) (*session.Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	s, ok := ss.sessions[id]
	if !ok {
		return nil, false
	}

	now := ss.now()
	if s.Expired(now, ss.ttl) {
		delete(ss.sessions, id)
		if ss.logger != nil {
			ss.logger.Auth().Debug("Session expired on access", "sessionId", id)
		}
		return nil, false
	}

	s.LastSeen = now
	return copySession(s), true
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (ss *SessionsStore) Delete(id string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, id)
}

// Cleanup removes every expired session and returns how many were dropped.
func (ss *SessionsStore) Cleanup() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := ss.now()
	removed := 0
	for id, s := range ss.sessions {
		if s.Expired(now, ss.ttl) {
			delete(ss.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions, expired or not.
func (ss *SessionsStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

func copySession(s *session.Session) *session.Session {
	c := *s
	return &c
}
