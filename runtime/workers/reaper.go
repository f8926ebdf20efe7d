package workers

import (
	"context"
	"log/slog"
	"time"

	"center-hub/contract"
	"center-hub/observability"
	"center-hub/runtime"
)

var _ contract.Worker = (*SessionReaper)(nil)

// SessionReaper sweeps live sessions and closes the ones that outstayed their
// welcome: any session with no traffic for idleTimeout (half-open transport),
// and pull-mode sessions past their maximum lifetime (clients that never
// disconnect cleanly are expected to reopen).
type SessionReaper struct {
	log             *slog.Logger
	registry        *runtime.Registry
	monitor         *observability.Monitor
	interval        time.Duration
	idleTimeout     time.Duration
	pullMaxLifetime time.Duration
	now             func() time.Time
}

func NewSessionReaper(log *slog.Logger, registry *runtime.Registry,
	monitor *observability.Monitor,
	interval, idleTimeout, pullMaxLifetime time.Duration) *SessionReaper {
	return &SessionReaper{
		log:             log,
		registry:        registry,
		monitor:         monitor,
		interval:        interval,
		idleTimeout:     idleTimeout,
		pullMaxLifetime: pullMaxLifetime,
		now:             time.Now,
	}
}

func (w *SessionReaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep runs one pass. Exported so tests and shutdown paths can trigger it
// without waiting for a tick.
func (w *SessionReaper) Sweep() {
	now := w.now().UTC()
	for _, sess := range w.registry.AllSessions() {
		idle := now.Sub(sess.LastActivity())
		aged := now.Sub(sess.StartedAt)

		switch {
		case sess.State() == runtime.StateClosed:
			// Transport already gone; just forget it.
			w.registry.PurgeSession(sess.ID)
		case idle > w.idleTimeout:
			w.reap(sess, "idle timeout", idle)
		case sess.Mode == runtime.ModePull && aged > w.pullMaxLifetime:
			w.reap(sess, "pull lifetime cap", aged)
		}
	}
}

func (w *SessionReaper) reap(sess *runtime.Session, reason string, elapsed time.Duration) {
	w.log.Info("Reaping session",
		"session_id", sess.ID,
		"mode", string(sess.Mode),
		"reason", reason,
		"elapsed", elapsed)
	sess.Close()
	w.registry.PurgeSession(sess.ID)
	w.monitor.IncrSessionsReaped()
}
