package conversation

import (
	"sync"
	"time"

	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/model/conversation"
)

// Store maps connection ids to live sessions. Each key is exclusively owned
// by its connection's handling path, so a single RWMutex over the map is
// sufficient; no cross-connection coordination happens here.
//
// Every session carries an epoch drawn from a store-wide generation counter.
// Writes and liveness checks take the epoch observed when a message started,
// so a remote call that outlives its connection (or a reused connection id)
// can never resurrect or clobber a torn-down session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	epochs   uint64
}

type entry struct {
	session conversation.Session
	epoch   uint64
}

// NewStore bootstraps the in-memory session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

// Create registers a fresh Initial session for the connection, replacing any
// stale session left under the same id, and returns it with its epoch.
func (s *Store) Create(connID string) (conversation.Session, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epochs++
	e := &entry{
		session: conversation.Session{
			ID:        connID,
			State:     conversation.StateInitial,
			CreatedAt: time.Now().UTC(),
		},
		epoch: s.epochs,
	}
	s.sessions[connID] = e
	return e.session, e.epoch
}

// Snapshot returns the current session and its epoch.
func (s *Store) Snapshot(connID string) (conversation.Session, uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[connID]
	if !ok {
		return conversation.Session{}, 0, false
	}
	return e.session, e.epoch, true
}

// Update writes the session back, but only if the connection is still live
// at the given epoch. Returns false when the write was discarded.
func (s *Store) Update(connID string, epoch uint64, sess conversation.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[connID]
	if !ok || e.epoch != epoch {
		return false
	}
	e.session = sess
	return true
}

// Reset forces the session back to Initial, discarding partial captures.
// Epoch-guarded like Update.
func (s *Store) Reset(connID string, epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[connID]
	if !ok || e.epoch != epoch {
		return false
	}
	e.session.State = conversation.StateInitial
	e.session.EmployeeID = ""
	e.session.CompanyID = ""
	return true
}

// Alive reports whether the connection is still live at the given epoch.
func (s *Store) Alive(connID string, epoch uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[connID]
	return ok && e.epoch == epoch
}

// Delete tears the session down. Called synchronously on disconnect.
func (s *Store) Delete(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, connID)
}
