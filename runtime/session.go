// Package runtime wires the live delivery path: session lifecycle, room
// membership and event fan-out. It contains no HTTP or WebSocket code; the
// web layer owns the transports and hands the runtime a sink per connection.
package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"center-hub/contract"
	"center-hub/domain"
	"center-hub/domain/event"
	"center-hub/errors"

	"github.com/google/uuid"
)

// State is the connection lifecycle. Only Live sessions receive deliveries.
type State int32

const (
	StateConnecting State = iota
	StateAuthenticated
	StateLive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateLive:
		return "live"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Mode is negotiated once at handshake and never re-evaluated per call.
type Mode string

const (
	// ModePush means the server initiates delivery over a held-open socket.
	ModePush Mode = "push"
	// ModePull means the client drains the event store by cursor over a
	// bounded-lifetime stream.
	ModePull Mode = "pull"
)

// Session represents one authenticated client's live channel. The session
// owns its sink; the registry and dispatcher only ever look it up by ID.
type Session struct {
	ID        string
	Mode      Mode
	StartedAt time.Time

	mu           sync.Mutex
	state        State
	identity     domain.Identity
	lastActivity time.Time
	sink         contract.EventSink
}

func NewSession(mode Mode, sink contract.EventSink) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           uuid.NewString(),
		Mode:         mode,
		StartedAt:    now,
		state:        StateConnecting,
		lastActivity: now,
		sink:         sink,
	}
}

// Authenticate moves Connecting -> Authenticated once the bearer credential
// checked out. A failed handshake never calls this; it goes straight to Close.
func (s *Session) Authenticate(identity domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConnecting {
		return fmt.Errorf("authenticate from %s: %w", s.state, errors.ErrSessionClosed)
	}
	s.identity = identity
	s.state = StateAuthenticated
	return nil
}

// GoLive marks the transport as fully established (socket open, or stream
// headers flushed). From here on the session is eligible for deliveries.
func (s *Session) GoLive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return fmt.Errorf("go live from %s: %w", s.state, errors.ErrSessionNotLive)
	}
	s.state = StateLive
	s.lastActivity = time.Now().UTC()
	return nil
}

// Close is terminal and idempotent. It also closes the sink so any in-flight
// Consume unblocks immediately.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.state = StateClosed
	s.sink.Close()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) IsLive() bool {
	return s.State() == StateLive
}

func (s *Session) Identity() domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Touch records traffic (data or keepalive ack) for the idle-timeout check.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now().UTC()
}

func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Deliver hands one envelope to the session's sink. Callers bound ctx with
// the per-send timeout.
func (s *Session) Deliver(ctx context.Context, env event.Envelope) error {
	if !s.IsLive() {
		return errors.ErrSessionNotLive
	}
	return s.sink.Consume(ctx, env)
}
