// Package curation holds the session-scoped feedback state and the engine
// that applies classified feedback to assembled feed pages.
package curation

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/umputun/feedscope/pkg/llm"
)

// State is the curation lifecycle stage of a session
type State string

// session states
const (
	StateIdle           State = "idle"            // no feedback submitted yet
	StateFeedbackQueued State = "feedback-queued" // new round submitted, not yet classified
	StateClassified     State = "classified"      // phrase lists updated for the latest round
	StateApplied        State = "applied"         // feedback influenced the last produced page
)

// Session accumulates one browsing session's feedback state. It lives only
// in memory and is dropped when the session ends.
type Session struct {
	ID string

	mu          sync.Mutex
	round       int      // incremented on every feedback submission
	classified  int      // rounds classified so far
	applied     bool     // classified feedback influenced the last page
	feedback    []string // raw feedback history
	additive    []string // append-only additive phrase list
	subtractive []string // append-only subtractive phrase list
	offsets     map[string]int
	lastSeen    time.Time
}

func newSession() *Session {
	return &Session{
		ID:       uuid.NewString(),
		offsets:  make(map[string]int),
		lastSeen: time.Now(),
	}
}

// AddFeedback appends a raw feedback fragment and starts a new round
func (s *Session) AddFeedback(text string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.feedback = append(s.feedback, text)
	s.round++
	s.applied = false
	return s.round
}

// State reports the session's curation lifecycle stage
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.round == 0:
		return StateIdle
	case s.round > s.classified:
		return StateFeedbackQueued
	case s.applied:
		return StateApplied
	default:
		return StateClassified
	}
}

// Round returns the current feedback round
func (s *Session) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// pendingFeedback returns the newest unclassified feedback fragment, if any
func (s *Session) pendingFeedback() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round <= s.classified || len(s.feedback) == 0 {
		return "", false
	}
	return s.feedback[len(s.feedback)-1], true
}

// recordCategorization appends the non-empty phrases and marks all rounds
// classified. Phrases are never replaced, only appended.
func (s *Session) recordCategorization(cat llm.Categorization) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cat.Additive != "" {
		s.additive = append(s.additive, cat.Additive)
	}
	if cat.Subtractive != "" {
		s.subtractive = append(s.subtractive, cat.Subtractive)
	}
	s.classified = s.round
}

// markApplied records that classified feedback influenced a produced page
func (s *Session) markApplied() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = true
}

// HasSubtractive reports whether any subtractive phrases were classified
func (s *Session) HasSubtractive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subtractive) > 0
}

// SubtractivePrompt concatenates the subtractive phrase list
func (s *Session) SubtractivePrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.subtractive, ". ")
}

// AdditivePrompt concatenates the additive phrase list
func (s *Session) AdditivePrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.additive, ". ")
}

// offset returns the rolling retrieval offset for a search query
func (s *Session) offset(query string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offsets[query]
}

// advanceOffset moves the rolling offset by the window size actually taken
func (s *Session) advanceOffset(query string, taken int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offsets[query] += taken
}

// touch refreshes the session's last-seen time
func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

func (s *Session) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store keeps active curation sessions in memory, keyed by session id.
// Stale sessions are pruned lazily on access.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore creates a session store; sessions idle longer than ttl are
// dropped on the next access
func NewStore(ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = 2 * time.Hour
	}
	return &Store{sessions: make(map[string]*Session), ttl: ttl}
}

// Create starts a new session
func (st *Store) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.prune()
	ses := newSession()
	st.sessions[ses.ID] = ses
	return ses
}

// Get returns the session by id, refreshing its last-seen time
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.prune()
	ses, ok := st.sessions[id]
	if ok {
		ses.touch()
	}
	return ses, ok
}

// Delete ends a session, discarding its accumulated state
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// prune drops sessions idle past the ttl, caller holds the lock
func (st *Store) prune() {
	deadline := time.Now().Add(-st.ttl)
	for id, ses := range st.sessions {
		if ses.seen().Before(deadline) {
			delete(st.sessions, id)
		}
	}
}
