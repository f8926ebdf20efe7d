package runtime

import (
	"testing"

	"center-hub/domain"
	"center-hub/sink"

	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, mode Mode, identity domain.Identity) *Session {
	t.Helper()
	s := NewSession(mode, sink.NewChannelSink(8))
	require.NoError(t, s.Authenticate(identity))
	require.NoError(t, s.GoLive())
	return s
}

func TestRegistry_Join_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	room := domain.ThreadRoom("t1")
	sess := newTestSession(t, ModePush, domain.Identity{UserID: "alice"})

	// Given a registered session
	registry.Register(sess)

	// When joining the same room twice
	registry.Join(room, sess.ID)
	registry.Join(room, sess.ID)

	// Then membership is unchanged after the first call
	req.Len(registry.MembersOf(room), 1)
}

func TestRegistry_Join_Unknown_Session_Is_Ignored(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	room := domain.ThreadRoom("t1")

	registry.Join(room, "never-registered")

	req.Empty(registry.MembersOf(room))
}

func TestRegistry_Leave_Prunes_Empty_Rooms(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	room := domain.CenterRoom("c1")
	sess := newTestSession(t, ModePush, domain.Identity{UserID: "alice"})

	registry.Register(sess)
	registry.Join(room, sess.ID)

	// When the last member leaves
	registry.Leave(room, sess.ID)

	// Then no dangling empty-set entry remains
	req.Nil(registry.MembersOf(room))
	_, rooms := registry.Counts()
	req.Zero(rooms)

	// And leaving again is a no-op
	registry.Leave(room, sess.ID)
}

func TestRegistry_MembersOf_Unknown_Room_Is_Empty_Not_An_Error(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.Nil(registry.MembersOf(domain.ParseRoomKey("thread:nope")))
}

func TestRegistry_PurgeSession_Removes_From_Every_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	center := domain.CenterRoom("c1")
	thread1 := domain.ThreadRoom("t1")
	thread2 := domain.ThreadRoom("t2")

	leaving := newTestSession(t, ModePush, domain.Identity{UserID: "alice"})
	staying := newTestSession(t, ModePush, domain.Identity{UserID: "bob"})
	registry.Register(leaving)
	registry.Register(staying)

	// Given a session in a center room and two thread rooms
	for _, room := range []domain.RoomKey{center, thread1, thread2} {
		registry.Join(room, leaving.ID)
	}
	registry.Join(thread1, staying.ID)

	// When the session is purged
	registry.PurgeSession(leaving.ID)

	// Then it is absent from every room's member set
	for _, room := range []domain.RoomKey{center, thread1, thread2} {
		for _, member := range registry.MembersOf(room) {
			req.NotEqual(leaving.ID, member.ID)
		}
	}
	_, ok := registry.Get(leaving.ID)
	req.False(ok)

	// And the other session's membership is untouched
	req.Len(registry.MembersOf(thread1), 1)
	sessions, rooms := registry.Counts()
	req.Equal(1, sessions)
	req.Equal(1, rooms)
}
