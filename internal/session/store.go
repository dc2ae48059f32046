package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"template_builder/internal/wizard"
)

// Session is one wizard run.
type Session struct {
	ID         string
	Controller *wizard.Controller
	CreatedAt  time.Time

	lastSeen time.Time
}

// Store is an in-memory registry of sessions keyed by id.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	idleTimeout   time.Duration
	newController func() *wizard.Controller
	logger        zerolog.Logger
	now           func() time.Time
}

// NewStore returns an empty registry. newController builds the controller for
// each new session; nil means wizard.NewController with defaults.
func NewStore(idleTimeout time.Duration, newController func() *wizard.Controller, logger zerolog.Logger) *Store {
	if newController == nil {
		newController = func() *wizard.Controller { return wizard.NewController() }
	}
	return &Store{
		sessions:      make(map[string]*Session),
		idleTimeout:   idleTimeout,
		newController: newController,
		logger:        logger.With().Str("component", "sessions").Logger(),
		now:           time.Now,
	}
}

// Create registers a new session.
func (s *Store) Create() *Session {
	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		Controller: s.newController(),
		CreatedAt:  now,
		lastSeen:   now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	total := len(s.sessions)
	s.mu.Unlock()

	s.logger.Debug().Str("session_id", sess.ID).Int("active", total).Msg("session created")
	return sess
}

// Get returns the session and marks it as recently used.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen = s.now()
	}
	return sess, ok
}

// Delete removes a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		s.logger.Debug().Str("session_id", id).Msg("session deleted")
	}
	return ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than the idle timeout and returns how
// many were removed.
func (s *Store) Sweep() int {
	if s.idleTimeout <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTimeout)

	s.mu.Lock()
	var evicted []string
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	s.mu.Unlock()

	if len(evicted) > 0 {
		s.logger.Info().Strs("session_ids", evicted).Msg("evicted idle sessions")
	}
	return len(evicted)
}

// Run sweeps periodically until ctx is done.
func (s *Store) Run(ctx context.Context) {
	// A zero or negative timeout disables eviction.
	if s.idleTimeout <= 0 {
		<-ctx.Done()
		return
	}

	interval := s.idleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
