package runtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"center-hub/domain"
	"center-hub/domain/event"
	"center-hub/observability"
	"center-hub/store"

	"github.com/stretchr/testify/require"
)

func TestTypingRelay_Excludes_Sender_And_Stores_Nothing(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	registry := NewRegistry()
	eventStore := store.NewEventStore(log, 1000, 24*time.Hour)
	relay := NewTypingRelay(log, registry, observability.NewMonitor(log), 100*time.Millisecond)
	room := domain.ThreadRoom("t1")

	alice := newTestSession(t, ModePush, domain.Identity{UserID: "alice", DisplayName: "Alice"})
	bob := newTestSession(t, ModePush, domain.Identity{UserID: "bob"})
	for _, s := range []*Session{alice, bob} {
		registry.Register(s)
		registry.Join(room, s.ID)
	}

	// When Alice starts typing
	relay.StartTyping(context.Background(), room, alice.Identity())

	// Then Bob gets the signal, Alice does not
	bobSink := sessionSink(t, bob)
	req.Len(bobSink.Frames, 1)
	req.Empty(sessionSink(t, alice).Frames)

	env := <-bobSink.Frames
	req.Equal(event.KindTypingChanged, env.Type)
	req.Empty(env.ID)

	// And the event store never saw it
	req.Empty(eventStore.Query("0", domain.Identity{}))

	// Stop mirrors start
	relay.StopTyping(context.Background(), room, alice.Identity())
	req.Len(bobSink.Frames, 1)
}
