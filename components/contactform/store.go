package contactform

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-contactform/pkg/contact"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("contactform: session not found")

type session struct {
	mu       sync.Mutex
	state    *contact.State
	lastSeen time.Time
}

// Store keeps one contact.State per session in memory. A session idle longer
// than the TTL is dropped when it is next looked up; the full map is swept at
// most once per TTL, or on Sweep.
type Store struct {
	mu        sync.Mutex
	sessions  map[string]*session
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
	newID     func() string
}

// NewStore returns an empty store. A zero ttl keeps sessions until deleted.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create mounts a new session and returns its id.
func (s *Store) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.maybeSweepLocked(now)

	id := s.newID()
	s.sessions[id] = &session{state: contact.NewState(), lastSeen: now}
	return id
}

// With runs fn against the session's state. Calls for the same session are
// serialised; calls for different sessions run concurrently.
func (s *Store) With(id string, fn func(*contact.State) error) error {
	s.mu.Lock()
	now := s.now()
	s.maybeSweepLocked(now)
	sess, ok := s.sessions[id]
	if ok && s.expired(sess, now) {
		delete(s.sessions, id)
		ok = false
	}
	if ok {
		sess.lastSeen = now
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.state)
}

// Delete unmounts a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(s.now())
	return len(s.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

func (s *Store) expired(sess *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}

func (s *Store) maybeSweepLocked(now time.Time) {
	if s.ttl > 0 && now.Sub(s.lastSweep) >= s.ttl {
		s.sweepLocked(now)
	}
}

func (s *Store) sweepLocked(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.lastSweep = now
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
