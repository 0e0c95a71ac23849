// Package booking holds the multi-step booking wizard and the
// service that persists a validated slot as an appointment.
package booking

import (
	"sync"
	"time"

	"physiocare/internal/slots"
)

// State names one step of the booking wizard.
type State string

const (
	StateSelectDate   State = "select_date"
	StateSelectTime   State = "select_time"
	StateEnterDetails State = "enter_details"
	StateConfirm      State = "confirm"
	StateComplete     State = "complete"
	StateCanceled     State = "canceled"
)

// WizardData is everything collected across the wizard steps. The
// slot engine never sees this; wizard state stays outside the core.
type WizardData struct {
	Date         time.Time
	Slot         slots.AvailableSlot
	PatientName  string
	PatientEmail string
	PatientPhone string
	Complaint    string
	BodyArea     string
	PainLevel    int
	Note         string
}

// Session is one patient's wizard in progress.
type Session struct {
	State     State
	Data      WizardData
	StartedAt time.Time
	UpdatedAt time.Time
	mu        sync.Mutex
}

// NewSession starts a wizard at the date-selection step.
func NewSession() *Session {
	now := time.Now()
	return &Session{State: StateSelectDate, StartedAt: now, UpdatedAt: now}
}

// SetState updates the session state.
func (s *Session) SetState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State = state
	s.UpdatedAt = time.Now()
}

// GetState returns the current state.
func (s *Session) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.State
}

// IsExpired checks if the session has gone stale.
func (s *Session) IsExpired(timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.UpdatedAt) > timeout
}

// FSM is the allowed-transition table for the wizard. Transitions are
// the only way a session moves between steps; every step can go back
// one step or cancel.
type FSM struct {
	transitions map[State][]State
}

// NewFSM creates the wizard transition table.
func NewFSM() *FSM {
	return &FSM{
		transitions: map[State][]State{
			StateSelectDate:   {StateSelectTime, StateCanceled},
			StateSelectTime:   {StateEnterDetails, StateSelectDate, StateCanceled},
			StateEnterDetails: {StateConfirm, StateSelectTime, StateCanceled},
			StateConfirm:      {StateComplete, StateEnterDetails, StateCanceled},
			StateComplete:     {StateSelectDate},
			StateCanceled:     {StateSelectDate},
		},
	}
}

// CanTransition checks if a transition is allowed.
func (f *FSM) CanTransition(from, to State) bool {
	for _, s := range f.transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves the session if the transition is allowed.
func (f *FSM) Transition(session *Session, to State) bool {
	if f.CanTransition(session.GetState(), to) {
		session.SetState(to)
		return true
	}
	return false
}

// SessionStore keeps wizard sessions per client key with expiry.
type SessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	timeout  time.Duration
}

// NewSessionStore creates a session store; timeout <= 0 defaults to
// 30 minutes.
func NewSessionStore(timeout time.Duration) *SessionStore {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		timeout:  timeout,
	}
}

// Get returns the session for a key, nil if absent or expired.
func (ss *SessionStore) Get(key string) *Session {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	session := ss.sessions[key]
	if session == nil || session.IsExpired(ss.timeout) {
		return nil
	}
	return session
}

// GetOrCreate returns the live session for a key or starts a new one.
func (ss *SessionStore) GetOrCreate(key string) *Session {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	session, ok := ss.sessions[key]
	if ok && !session.IsExpired(ss.timeout) {
		return session
	}

	session = NewSession()
	ss.sessions[key] = session
	return session
}

// Delete removes a session.
func (ss *SessionStore) Delete(key string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, key)
}

// Cleanup removes expired sessions and reports how many were dropped.
func (ss *SessionStore) Cleanup() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	removed := 0
	for key, session := range ss.sessions {
		if session.IsExpired(ss.timeout) {
			delete(ss.sessions, key)
			removed++
		}
	}
	return removed
}
