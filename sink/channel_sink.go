package sink

import (
	"context"
	"sync"

	"center-hub/contract"
	"center-hub/domain/event"
	"center-hub/errors"
)

var _ contract.EventSink = (*ChannelSink)(nil)

// ChannelSink decouples the dispatcher from the transport: the dispatcher
// drops envelopes into the buffered channel, the connection's write loop
// drains it at the client's pace.
type ChannelSink struct {
	Frames chan event.Envelope

	closeOnce sync.Once
	closed    chan struct{}
}

func NewChannelSink(bufferSize int) *ChannelSink {
	return &ChannelSink{
		Frames: make(chan event.Envelope, bufferSize),
		closed: make(chan struct{}),
	}
}

// Consume is called by the dispatcher. If the buffer stays full until the
// context deadline, the client is too slow or gone; the error tells the
// dispatcher to close this one session and move on.
func (s *ChannelSink) Consume(ctx context.Context, env event.Envelope) error {
	select {
	case <-s.closed:
		return errors.ErrSessionClosed
	default:
	}

	select {
	case s.Frames <- env:
		return nil
	case <-s.closed:
		return errors.ErrSessionClosed
	case <-ctx.Done():
		return errors.ErrSinkFull
	}
}

// Close makes every pending and future Consume return ErrSessionClosed.
// The Frames channel is left open: the write loop may still drain it.
func (s *ChannelSink) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}
