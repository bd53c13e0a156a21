package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"mindstream/internal/catalog"
	"mindstream/internal/logging"
	"mindstream/internal/metrics"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Session is one visitor's browsing session: navigation state plus the
// player registry, serialized behind a single mutex so a session's
// transitions apply one at a time regardless of HTTP concurrency.
type Session struct {
	ID string

	mu       sync.Mutex
	state    State
	players  *PlayerRegistry
	lastSeen time.Time
}

func newSession(id string) *Session {
	return &Session{
		ID:       id,
		state:    NewState(),
		players:  NewPlayerRegistry(),
		lastSeen: time.Now(),
	}
}

// Snapshot returns the current navigation state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Descend moves into a child category. Any successful navigation
// deactivates the armed player.
func (s *Session) Descend(root *catalog.CategoryNode, label string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.state.Descend(root, label)
	if err != nil {
		return s.state, err
	}
	s.state = next
	s.players.Deactivate()
	return s.state, nil
}

// AscendOne moves one level up (no-op at the root) and deactivates.
func (s *Session) AscendOne() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.AscendOne()
	s.players.Deactivate()
	return s.state
}

// ResetToRoot returns to the root and deactivates.
func (s *Session) ResetToRoot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.ResetToRoot()
	s.players.Deactivate()
	return s.state
}

// Activate arms the player slot for url, implicitly disarming the
// previous one.
func (s *Session) Activate(url string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.Activate(url)
	s.players.Activate(url)
	return s.state
}

// IsActive reports whether url is the session's active record.
func (s *Session) IsActive(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsActive(url)
}

// ReportPlayer applies an engine event for url and returns the stream
// URLs the engine must pause to keep a single player audible.
func (s *Session) ReportPlayer(url string, event PlayerEvent) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players.Report(url, event)
}

// Phase returns the slot phase for url.
func (s *Session) Phase(url string) SlotPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players.Phase(url)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store holds browsing sessions keyed by ID and expires idle ones.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore creates a session store whose sessions expire after ttl of
// inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create registers a new session with a fresh ID.
func (st *Store) Create() *Session {
	s := newSession(uuid.NewString())

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	logging.Debug("session %s created", s.ID)
	return s
}

// Get returns the session for id, refreshing its idle timer.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(time.Now())
	return s, nil
}

// Count returns the number of live sessions.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// CleanExpired removes sessions idle past the store TTL and returns
// how many were dropped.
func (st *Store) CleanExpired() int {
	cutoff := time.Now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		logging.Debug("expired %d idle sessions", removed)
	}
	return removed
}

// StartSweeper periodically removes expired sessions and refreshes the
// active-session gauge. The returned stop function halts the sweeper
// and waits for it to finish.
func (st *Store) StartSweeper(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				st.CleanExpired()
				metrics.SessionsActive.Set(float64(st.Count()))
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}
