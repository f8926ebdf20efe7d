package workers

import (
	"log/slog"
	"testing"
	"time"

	"center-hub/domain"
	"center-hub/observability"
	"center-hub/runtime"
	"center-hub/sink"

	"github.com/stretchr/testify/require"
)

func liveSession(t *testing.T, registry *runtime.Registry, mode runtime.Mode, userID string) *runtime.Session {
	t.Helper()
	s := runtime.NewSession(mode, sink.NewChannelSink(8))
	require.NoError(t, s.Authenticate(domain.Identity{UserID: userID}))
	require.NoError(t, s.GoLive())
	registry.Register(s)
	return s
}

func TestSessionReaper_Closes_Idle_Sessions(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	registry := runtime.NewRegistry()
	reaper := NewSessionReaper(log, registry, observability.NewMonitor(log),
		time.Second, 90*time.Second, 5*time.Minute)

	idle := liveSession(t, registry, runtime.ModePush, "idle")

	// Given two minutes pass with no traffic at all
	reaper.now = func() time.Time { return time.Now().UTC().Add(2 * time.Minute) }

	reaper.Sweep()

	// Then the half-open session is closed and forgotten
	req.Equal(runtime.StateClosed, idle.State())
	sessions, _ := registry.Counts()
	req.Zero(sessions)
}

func TestSessionReaper_Keeps_Sessions_Within_Idle_Timeout(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	registry := runtime.NewRegistry()
	reaper := NewSessionReaper(log, registry, observability.NewMonitor(log),
		time.Second, 90*time.Second, 5*time.Minute)

	fresh := liveSession(t, registry, runtime.ModePush, "fresh")

	// Given only one minute passes
	reaper.now = func() time.Time { return time.Now().UTC().Add(time.Minute) }

	reaper.Sweep()

	req.Equal(runtime.StateLive, fresh.State())
	sessions, _ := registry.Counts()
	req.Equal(1, sessions)
}

func TestSessionReaper_Caps_Pull_Session_Lifetime(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	registry := runtime.NewRegistry()
	reaper := NewSessionReaper(log, registry, observability.NewMonitor(log),
		time.Second, time.Hour, 5*time.Minute)

	pusher := liveSession(t, registry, runtime.ModePush, "pusher")
	puller := liveSession(t, registry, runtime.ModePull, "puller")

	// Given six minutes have passed since both sessions started, well within
	// the one-hour idle timeout; only the pull lifetime cap applies
	reaper.now = func() time.Time { return time.Now().UTC().Add(6 * time.Minute) }

	reaper.Sweep()

	// Then only the pull-mode session is force-closed
	req.Equal(runtime.StateClosed, puller.State())
	req.Equal(runtime.StateLive, pusher.State())

	_, stillThere := registry.Get(pusher.ID)
	req.True(stillThere)
	_, stillThere = registry.Get(puller.ID)
	req.False(stillThere)
}

func TestSessionReaper_Forgets_Already_Closed_Sessions(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	registry := runtime.NewRegistry()
	reaper := NewSessionReaper(log, registry, observability.NewMonitor(log),
		time.Second, time.Hour, 5*time.Minute)

	sess := liveSession(t, registry, runtime.ModePush, "gone")
	sess.Close()

	reaper.Sweep()

	sessions, _ := registry.Counts()
	req.Zero(sessions)
}
