package runtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"center-hub/domain"
	"center-hub/domain/event"
	"center-hub/observability"
	"center-hub/sink"
	"center-hub/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type brokenSink struct{}

func (brokenSink) Consume(context.Context, event.Envelope) error {
	return context.DeadlineExceeded
}
func (brokenSink) Close() {}

func newDispatcherUnderTest(registry *Registry) *Dispatcher {
	log := slog.Default()
	return NewDispatcher(log,
		store.NewEventStore(log, 1000, 24*time.Hour),
		registry,
		observability.NewMonitor(log),
		100*time.Millisecond)
}

func messageFor(thread string) event.MessageCreated {
	return event.MessageCreated{
		ID:       uuid.New(),
		ThreadID: thread,
		AuthorID: "alice",
		Content:  "see you at the open day",
		At:       time.Now().UTC(),
	}
}

func TestDispatcher_Partial_Failure_Is_Isolated(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	d := newDispatcherUnderTest(registry)
	room := domain.ThreadRoom("t1")

	// Given sessions A, B, C in the room, where sending to B fails
	a := newTestSession(t, ModePush, domain.Identity{UserID: "a"})
	b := NewSession(ModePush, brokenSink{})
	req.NoError(b.Authenticate(domain.Identity{UserID: "b"}))
	req.NoError(b.GoLive())
	c := newTestSession(t, ModePush, domain.Identity{UserID: "c"})

	for _, s := range []*Session{a, b, c} {
		registry.Register(s)
		registry.Join(room, s.ID)
	}

	// When a message event for the room is published
	rec := d.Publish(context.Background(), messageFor("t1"))

	// Then A and C received it
	aSink := sessionSink(t, a)
	cSink := sessionSink(t, c)
	req.Len(aSink.Frames, 1)
	req.Len(cSink.Frames, 1)
	req.Equal(rec.ID, (<-aSink.Frames).ID)

	// And B is closed and gone from tracking
	req.Equal(StateClosed, b.State())
	_, ok := registry.Get(b.ID)
	req.False(ok)

	// And the record is still retrievable from the store
	batch := d.store.Query("0", domain.Identity{UserID: "b"})
	req.Len(batch, 1)
	req.Equal(rec.ID, batch[0].ID)
}

func TestDispatcher_Pull_Sessions_Are_Not_Pushed_To(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	d := newDispatcherUnderTest(registry)
	room := domain.ThreadRoom("t1")

	puller := newTestSession(t, ModePull, domain.Identity{UserID: "p"})
	registry.Register(puller)
	registry.Join(room, puller.ID)

	d.Publish(context.Background(), messageFor("t1"))

	// The pull session sees nothing on its sink; it will pick the event up
	// through its next cursor query.
	req.Empty(sessionSink(t, puller).Frames)
	req.Len(d.store.Query("0", puller.Identity()), 1)
}

func TestDispatcher_Global_Event_Reaches_All_Live_Push_Sessions(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	d := newDispatcherUnderTest(registry)

	inRoom := newTestSession(t, ModePush, domain.Identity{UserID: "roomy"})
	loner := newTestSession(t, ModePush, domain.Identity{UserID: "loner"})
	registry.Register(inRoom)
	registry.Register(loner)
	registry.Join(domain.CenterRoom("c9"), inRoom.ID)

	// An announcement is globally scoped: room membership must not matter.
	d.Publish(context.Background(), event.AnnouncementCreated{
		ID:      uuid.New(),
		Message: "maintenance tonight at 22:00",
		At:      time.Now().UTC(),
	})

	req.Len(sessionSink(t, inRoom).Frames, 1)
	req.Len(sessionSink(t, loner).Frames, 1)
}

func TestDispatcher_Canceled_Publisher_Context_Spares_Recipients(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	d := newDispatcherUnderTest(registry)
	room := domain.CenterRoom("c1")

	healthy := newTestSession(t, ModePush, domain.Identity{UserID: "healthy"})
	registry.Register(healthy)
	registry.Join(room, healthy.ID)

	// Given a publisher whose request was aborted before dispatch ran
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d.Publish(ctx, event.CenterUpdated{
		CenterID: "c1",
		Name:     "Pottery Hall",
		Fields:   []string{"hours"},
		At:       time.Now().UTC(),
	})

	// Then the recipient still gets the event and keeps its session
	req.Len(sessionSink(t, healthy).Frames, 1)
	req.True(healthy.IsLive())
	_, stillThere := registry.Get(healthy.ID)
	req.True(stillThere)
}

func TestDispatcher_User_Scoped_Event_Skips_Other_Members(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	d := newDispatcherUnderTest(registry)
	room := domain.CenterRoom("c1")

	admin := newTestSession(t, ModePush, domain.Identity{UserID: "admin-1", Role: domain.RoleAdmin})
	bystander := newTestSession(t, ModePush, domain.Identity{UserID: "user-2"})
	for _, s := range []*Session{admin, bystander} {
		registry.Register(s)
		registry.Join(room, s.ID)
	}

	d.Publish(context.Background(), event.ContactMessageCreated{
		ID:       uuid.New(),
		CenterID: "c1",
		AdminID:  "admin-1",
		Subject:  "volunteering",
		At:       time.Now().UTC(),
	})

	req.Len(sessionSink(t, admin).Frames, 1)
	req.Empty(sessionSink(t, bystander).Frames)
}

// sessionSink digs the concrete channel sink back out for assertions.
func sessionSink(t *testing.T, s *Session) *sink.ChannelSink {
	t.Helper()
	chSink, ok := s.sink.(*sink.ChannelSink)
	require.True(t, ok)
	return chSink
}
