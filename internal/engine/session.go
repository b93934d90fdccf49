package engine

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is the session's command-processing state.
type State int

const (
	// Idle means the session can accept an utterance.
	Idle State = iota
	// AwaitingResponse means a prior utterance is still resolving; new
	// submissions are rejected until it completes.
	AwaitingResponse
)

// ErrBusy is returned when an utterance arrives while a prior one is still
// being processed. Commands run strictly one at a time in submission order.
var ErrBusy = errors.New("still working on the previous command")

// Entry is one record of the append-only session log. Its lifetime is bound
// to the open session; nothing here is persisted.
type Entry struct {
	Index     int
	Utterance string
	Summary   string
	Tier      string
	At        time.Time
}

// Session serializes utterances through a dispatcher and keeps the ordered
// exchange log for display.
type Session struct {
	mu         sync.Mutex
	state      State
	entries    []Entry
	dispatcher *Dispatcher
}

// NewSession opens a session over a dispatcher.
func NewSession(d *Dispatcher) *Session {
	return &Session{dispatcher: d}
}

// State returns the current processing state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit resolves one utterance. It holds the session's single command slot
// for the duration of processing and returns ErrBusy if the slot is taken.
func (s *Session) Submit(ctx context.Context, utterance string) (*Response, error) {
	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.state = AwaitingResponse
	s.mu.Unlock()

	resp := s.dispatcher.Handle(ctx, utterance)

	s.mu.Lock()
	s.entries = append(s.entries, Entry{
		Index:     len(s.entries) + 1,
		Utterance: utterance,
		Summary:   firstLine(resp.Text),
		Tier:      resp.Tier,
		At:        time.Now(),
	})
	s.state = Idle
	s.mu.Unlock()

	return resp, nil
}

// History returns a copy of the session log in submission order.
func (s *Session) History() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
