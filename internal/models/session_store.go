package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type IntakeStep uint8

const (
	StepSeverity IntakeStep = 1 << iota
	StepProfile
	StepHabits

	allSteps = StepSeverity | StepProfile | StepHabits
)

// Session is a snapshot of one in-progress form: the current-user record,
// the intake steps applied so far and a revision bumped on every update.
type Session struct {
	ID       RecordID
	Record   Record
	Steps    IntakeStep
	Revision uint64
	LastSeen time.Time
}

func (s Session) Complete() bool {
	return s.Steps&allSteps == allSteps
}

// SessionStore keeps one current-user record per session key.
type SessionStore struct {
	mu          sync.RWMutex
	data        map[RecordID]*Session
	maxSessions int
	clock       clockwork.Clock
}

func NewSessionStore(maxSessions int, clock clockwork.Clock) *SessionStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SessionStore{
		data:        make(map[RecordID]*Session),
		maxSessions: maxSessions,
		clock:       clock,
	}
}

func (s *SessionStore) Create() (RecordID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxSessions > 0 && len(s.data) >= s.maxSessions {
		return "", ErrTooManySessions
	}
	id := RecordID(uuid.NewString())
	s.data[id] = &Session{
		ID:       id,
		Record:   NewUnsetRecord(),
		LastSeen: s.clock.Now(),
	}
	return id, nil
}

func (s *SessionStore) CurrentUser(id RecordID) (Record, bool) {
	sess, ok := s.Get(id)
	if !ok {
		return Record{}, false
	}
	return sess.Record, true
}

func (s *SessionStore) Get(id RecordID) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.data[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// UpdateCurrentUser merges patch into the session record. Values are stored
// as given; range checks happen only when the record is ranked.
func (s *SessionStore) UpdateCurrentUser(id RecordID, patch RecordPatch, step IntakeStep) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	sess.Record = patch.Apply(sess.Record)
	sess.Steps |= step
	sess.Revision++
	sess.LastSeen = s.clock.Now()
	return *sess, nil
}

func (s *SessionStore) Delete(id RecordID) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[id]
	if !ok {
		return Session{}, false
	}
	delete(s.data, id)
	return *sess, true
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// PruneIdle drops sessions not updated within ttl and returns them.
// A non-positive ttl disables pruning.
func (s *SessionStore) PruneIdle(ttl time.Duration) []Session {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	var pruned []Session
	for id, sess := range s.data {
		if now.Sub(sess.LastSeen) > ttl {
			pruned = append(pruned, *sess)
			delete(s.data, id)
		}
	}
	return pruned
}
