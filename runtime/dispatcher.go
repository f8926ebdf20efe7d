package runtime

import (
	"context"
	"log/slog"
	"time"

	"center-hub/contract"
	"center-hub/domain/event"
	"center-hub/observability"
	"center-hub/store"
)

var _ contract.EventPublisher = (*Dispatcher)(nil)

// Dispatcher turns a domain event into deliveries.
//
// The store append always happens first: pull-mode clients and reconnecting
// push clients must find the event within the retention window even if every
// push send below fails. Push delivery is best effort, per-session isolated.
type Dispatcher struct {
	log         *slog.Logger
	store       *store.EventStore
	registry    *Registry
	monitor     *observability.Monitor
	sendTimeout time.Duration
}

func NewDispatcher(log *slog.Logger, eventStore *store.EventStore, registry *Registry,
	monitor *observability.Monitor, sendTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		log:         log,
		store:       eventStore,
		registry:    registry,
		monitor:     monitor,
		sendTimeout: sendTimeout,
	}
}

// Publish appends the event to the store, then pushes it to every Live
// push-capable member of its room (every live session, for a global event).
// It returns the stored record so callers can hand its ID back as a cursor.
func (d *Dispatcher) Publish(ctx context.Context, e event.Event) store.Record {
	rec := d.store.Append(e)
	d.monitor.IncrEventsPublished()

	env, err := rec.Envelope()
	if err != nil {
		// Closed-union violation; the record stays queryable, push is skipped.
		d.log.Error("Refusing to push event with no wire shape", "err", err)
		return rec
	}

	targetUser := e.TargetUser()
	for _, sess := range d.candidates(e) {
		if sess.Mode != ModePush || !sess.IsLive() {
			continue
		}
		if targetUser != "" && sess.Identity().UserID != targetUser {
			continue
		}
		d.send(ctx, sess, env)
	}
	return rec
}

func (d *Dispatcher) candidates(e event.Event) []*Session {
	if room := e.Room(); !room.IsGlobal() {
		return d.registry.MembersOf(room)
	}
	return d.registry.AllSessions()
}

// send delivers to a single session under the per-send timeout. A failure is
// isolated: the broken session is closed and purged, dispatch to the
// remaining sessions continues untouched.
//
// The timeout is detached from the caller's context. ctx usually belongs to
// the publisher's HTTP request; if the publisher hangs up mid-dispatch, the
// recipients' sessions are not the ones at fault and must not be dropped.
func (d *Dispatcher) send(ctx context.Context, sess *Session, env event.Envelope) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.sendTimeout)
	defer cancel()

	if err := sess.Deliver(sendCtx, env); err != nil {
		d.monitor.IncrSendFailures()
		d.log.Warn("Send failed, closing session",
			"session_id", sess.ID,
			"user_id", sess.Identity().UserID,
			"type", env.Type,
			"err", err)
		d.Drop(sess)
		return
	}
	d.monitor.IncrEventsDelivered()
}

// Drop closes a session and removes it from all tracking. Idempotent.
func (d *Dispatcher) Drop(sess *Session) {
	sess.Close()
	d.registry.PurgeSession(sess.ID)
	d.monitor.IncrSessionsClosed()
}
