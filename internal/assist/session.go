package assist

import (
	"context"
	"sync"
	"time"

	"github.com/assureops/incident-desk/internal/domain"
	"github.com/jellydator/ttlcache/v3"
)

// SessionState is the lifecycle of one edit session's assist cycle.
type SessionState string

const (
	SessionIdle       SessionState = "idle"
	SessionDebouncing SessionState = "debouncing"
	SessionPending    SessionState = "pending"
	SessionResolved   SessionState = "resolved"
	SessionFailed     SessionState = "failed"
)

// DefaultDebounce is the quiet period after the last edit before the assist
// call fires.
const DefaultDebounce = time.Second

// Session tracks the assist cycle for a single incident edit. Each text
// update bumps a generation counter and restarts the debounce timer; a
// completion only commits to the display buffer if its generation is still
// the current one, so the latest started cycle always wins and stale
// responses are discarded regardless of arrival order.
type Session struct {
	client   *Client
	debounce time.Duration

	mu         sync.Mutex
	state      SessionState
	generation uint64
	timer      *time.Timer
	suggestion domain.AssistSuggestion
}

// NewSession creates an idle session.
func NewSession(client *Client, debounce time.Duration) *Session {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Session{
		client:   client,
		debounce: debounce,
		state:    SessionIdle,
	}
}

// Update feeds the current edit buffer into the session. Any prior pending
// cycle is superseded. With both inputs empty the session returns to idle
// and no call is ever made.
func (s *Session) Update(shortDescription, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if shortDescription == "" && description == "" {
		s.state = SessionIdle
		s.suggestion = domain.AssistSuggestion{}
		return
	}

	gen := s.generation
	s.state = SessionDebouncing
	s.timer = time.AfterFunc(s.debounce, func() {
		s.fire(gen, shortDescription, description)
	})
}

// fire runs one assist cycle for the given generation.
func (s *Session) fire(gen uint64, shortDescription, description string) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.state = SessionPending
	s.mu.Unlock()

	suggestion := s.client.Suggest(context.Background(), shortDescription, description)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		recordDiscarded()
		return
	}
	s.suggestion = suggestion
	if suggestion.Available {
		s.state = SessionResolved
	} else {
		s.state = SessionFailed
	}
}

// Snapshot returns the state and suggestion currently safe to render.
func (s *Session) Snapshot() (SessionState, domain.AssistSuggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.suggestion
}

// SessionManager keys sessions by an opaque edit-session id and expires
// abandoned ones.
type SessionManager struct {
	client   *Client
	debounce time.Duration
	sessions *ttlcache.Cache[string, *Session]
}

// NewSessionManager creates a manager whose sessions expire after ttl of
// inactivity.
func NewSessionManager(client *Client, debounce, ttl time.Duration) *SessionManager {
	cache := ttlcache.New[string, *Session](
		ttlcache.WithTTL[string, *Session](ttl),
	)
	go cache.Start()

	return &SessionManager{
		client:   client,
		debounce: debounce,
		sessions: cache,
	}
}

// Update routes an edit-buffer change to its session. When both inputs are
// empty and no session exists yet, none is created: there is nothing to
// assist with.
func (m *SessionManager) Update(id, shortDescription, description string) (SessionState, domain.AssistSuggestion) {
	item := m.sessions.Get(id)
	if item == nil {
		if shortDescription == "" && description == "" {
			return SessionIdle, domain.AssistSuggestion{}
		}
		item, _ = m.sessions.GetOrSet(id, NewSession(m.client, m.debounce))
	}

	session := item.Value()
	session.Update(shortDescription, description)
	return session.Snapshot()
}

// Get returns the session's renderable state, or idle for unknown ids.
func (m *SessionManager) Get(id string) (SessionState, domain.AssistSuggestion) {
	item := m.sessions.Get(id)
	if item == nil {
		return SessionIdle, domain.AssistSuggestion{}
	}
	return item.Value().Snapshot()
}

// Stop shuts down the expiry janitor.
func (m *SessionManager) Stop() {
	m.sessions.Stop()
}
