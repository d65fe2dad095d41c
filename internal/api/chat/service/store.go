package chatService

import (
	"sync"

	"ChatbotGolang/internal/entity"
)

type ContextScope uint8

const (
	// ScopeIntent clears the in-progress intent's slots and state while
	// preserving cross-intent data such as the remembered name.
	ScopeIntent ContextScope = iota
	ScopeAll
)

// ContextStore holds exactly one dialogue context per session id. The
// outer lock guards the map; each entry carries its own mutex so two
// turns for the same session never interleave while distinct sessions
// proceed in parallel.
type ContextStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu   sync.Mutex
	sess *entity.ChatSession

	// gone marks an entry removed from the map while another turn held
	// its mutex; Acquire must never hand it out again.
	gone bool
}

func NewContextStore() *ContextStore {
	return &ContextStore{
		sessions: make(map[string]*sessionEntry),
	}
}

// Acquire returns the session for id, creating a fresh idle one if
// absent, with its per-session lock held. The release func must be
// called when the turn is done.
func (s *ContextStore) Acquire(id string) (*entity.ChatSession, func()) {
	for {
		s.mu.Lock()
		entry, ok := s.sessions[id]
		if !ok {
			entry = &sessionEntry{sess: entity.NewChatSession(id)}
			s.sessions[id] = entry
		}
		s.mu.Unlock()

		entry.mu.Lock()
		if !entry.gone {
			return entry.sess, entry.mu.Unlock
		}
		// The entry was deleted between the map lookup and the lock;
		// retry against the current map state.
		entry.mu.Unlock()
	}
}

func (s *ContextStore) Update(id string, slot string, value string) {
	sess, release := s.Acquire(id)
	defer release()
	sess.Slots[slot] = value
}

func (s *ContextStore) Reset(id string, scope ContextScope) {
	sess, release := s.Acquire(id)
	defer release()
	resetSlots(sess, scope)
}

// Delete removes the session's context. It waits for an in-flight turn
// on the same session to finish, then marks the entry so a racing
// Acquire cannot resurrect it.
func (s *ContextStore) Delete(id string) {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	entry.mu.Lock()
	entry.gone = true
	entry.mu.Unlock()
}

func (s *ContextStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// resetSlots mutates a session the caller already holds.
func resetSlots(sess *entity.ChatSession, scope ContextScope) {
	name := sess.Slots["name"]

	sess.Slots = make(map[string]string)
	sess.ActiveIntent = ""
	sess.AwaitingSlot = ""
	sess.Retries = 0
	sess.State = entity.StateIdle

	if scope == ScopeIntent && name != "" {
		sess.Slots["name"] = name
	}
}
