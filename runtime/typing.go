package runtime

import (
	"context"
	"log/slog"
	"time"

	"center-hub/domain"
	"center-hub/domain/event"
	"center-hub/observability"
)

// TypingRelay broadcasts start/stop typing signals to the other live members
// of a room. Nothing is persisted and nothing reaches the event store: the
// signal is advisory and self-correcting, so loss on disconnect is fine.
type TypingRelay struct {
	log         *slog.Logger
	registry    *Registry
	monitor     *observability.Monitor
	sendTimeout time.Duration
}

func NewTypingRelay(log *slog.Logger, registry *Registry,
	monitor *observability.Monitor, sendTimeout time.Duration) *TypingRelay {
	return &TypingRelay{
		log:         log,
		registry:    registry,
		monitor:     monitor,
		sendTimeout: sendTimeout,
	}
}

func (r *TypingRelay) StartTyping(ctx context.Context, room domain.RoomKey, who domain.Identity) {
	r.broadcast(ctx, room, who, true)
}

func (r *TypingRelay) StopTyping(ctx context.Context, room domain.RoomKey, who domain.Identity) {
	r.broadcast(ctx, room, who, false)
}

func (r *TypingRelay) broadcast(ctx context.Context, room domain.RoomKey, who domain.Identity, typing bool) {
	r.monitor.IncrTypingSignals()

	e := event.TypingChanged{
		RoomKey:     room,
		UserID:      who.UserID,
		DisplayName: who.DisplayName,
		Typing:      typing,
	}
	env, err := event.NewEnvelope("", time.Now().UTC(), e)
	if err != nil {
		r.log.Error("Typing envelope failed", "err", err)
		return
	}

	for _, sess := range r.registry.MembersOf(room) {
		// The sender already knows they are typing.
		if sess.Identity().UserID == who.UserID || !sess.IsLive() {
			continue
		}

		// Detached from the sender's request context, same as the dispatcher:
		// the sender hanging up must not abort delivery to the others.
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.sendTimeout)
		err := sess.Deliver(sendCtx, env)
		cancel()
		if err != nil {
			r.log.Debug("Typing signal lost", "session_id", sess.ID, "err", err)
		}
	}
}
