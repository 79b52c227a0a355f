package conversation

import (
	"sync"
)

// SessionStore maps user identifiers to in-progress sessions. Each user's
// entry is guarded by its own lock so one user's slow build sequence never
// serializes unrelated users.
type SessionStore struct {
	mu       sync.Mutex // guards the maps only, never held across handling
	sessions map[int64]*Session
	locks    map[int64]*sync.Mutex
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*Session),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Acquire returns the user's session, creating one at StageAwaitingRoute if
// absent, with that user's lock held. The caller must invoke release when
// done mutating the session.
func (s *SessionStore) Acquire(userID int64) (*Session, func()) {
	s.mu.Lock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	s.mu.Unlock()

	lock.Lock()

	s.mu.Lock()
	session, ok := s.sessions[userID]
	if !ok {
		session = &Session{UserID: userID, Stage: StageAwaitingRoute}
		s.sessions[userID] = session
	}
	s.mu.Unlock()

	return session, lock.Unlock
}

// Remove discards a user's session. The per-user lock is kept so a handler
// still holding it stays consistent.
func (s *SessionStore) Remove(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}
