package store

import (
	"log/slog"
	"testing"
	"time"

	"center-hub/domain"
	"center-hub/domain/event"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newMessage(thread, content string, at time.Time) event.MessageCreated {
	return event.MessageCreated{
		ID:       uuid.New(),
		ThreadID: thread,
		AuthorID: uuid.NewString(),
		Content:  content,
		At:       at,
	}
}

func TestEventStore_Query_Is_Strictly_After_Cursor(t *testing.T) {
	req := require.New(t)
	s := NewEventStore(slog.Default(), 1000, 24*time.Hour)
	nobody := domain.Identity{UserID: "visitor"}

	// Given 5 appended events
	var last Record
	for i := 0; i < 5; i++ {
		last = s.Append(newMessage("t1", "hello", time.Now().UTC()))
	}

	// When querying from the beginning
	batch := s.Query("0", nobody)

	// Then all 5 come back in insertion order
	req.Len(batch, 5)
	for i := 1; i < len(batch); i++ {
		req.Greater(batch[i].Seq, batch[i-1].Seq)
		req.False(batch[i].At.Before(batch[i-1].At))
	}
	req.Equal(last.ID, batch[len(batch)-1].ID)

	// And resuming from the last returned cursor yields nothing
	req.Empty(s.Query(last.ID, nobody))

	// And appending one more yields exactly that one
	extra := s.Append(newMessage("t1", "late", time.Now().UTC()))
	resumed := s.Query(last.ID, nobody)
	req.Len(resumed, 1)
	req.Equal(extra.ID, resumed[0].ID)
}

func TestEventStore_Query_Malformed_Cursor_Means_From_The_Start(t *testing.T) {
	req := require.New(t)
	s := NewEventStore(slog.Default(), 1000, 24*time.Hour)
	s.Append(newMessage("t1", "hello", time.Now().UTC()))

	req.Len(s.Query("not-a-cursor", domain.Identity{}), 1)
	req.Len(s.Query("", domain.Identity{}), 1)
}

func TestEventStore_Capacity_Evicts_Oldest(t *testing.T) {
	req := require.New(t)
	capacity := 10
	s := NewEventStore(slog.Default(), capacity, 24*time.Hour)

	// Given capacity+1 appends
	first := s.Append(newMessage("t1", "first", time.Now().UTC()))
	for i := 0; i < capacity; i++ {
		s.Append(newMessage("t1", "fill", time.Now().UTC()))
	}

	// Then the store holds exactly capacity records and the oldest is gone
	batch := s.Query("0", domain.Identity{})
	req.Len(batch, capacity)
	req.Greater(batch[0].Seq, first.Seq)
	req.Equal(capacity, s.Stats().Count)
}

func TestEventStore_TTL_Evicts_Expired_Records(t *testing.T) {
	req := require.New(t)
	s := NewEventStore(slog.Default(), 1000, time.Hour)

	// Given a simulated clock
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Append(newMessage("t1", "old", now))

	// When more than the TTL elapses before the next append
	now = now.Add(2 * time.Hour)
	kept := s.Append(newMessage("t1", "fresh", now))

	// Then only the fresh record survives
	batch := s.Query("0", domain.Identity{})
	req.Len(batch, 1)
	req.Equal(kept.ID, batch[0].ID)
}

func TestEventStore_Query_Filters_User_Scoped_Records(t *testing.T) {
	req := require.New(t)
	s := NewEventStore(slog.Default(), 1000, 24*time.Hour)
	admin := domain.Identity{UserID: "admin-1", Role: domain.RoleAdmin}
	other := domain.Identity{UserID: "user-2"}

	s.Append(newMessage("t1", "public", time.Now().UTC()))
	s.Append(event.ContactMessageCreated{
		ID:       uuid.New(),
		CenterID: "c1",
		AdminID:  admin.UserID,
		Subject:  "opening hours",
		At:       time.Now().UTC(),
	})

	// The admin sees both, anyone else only the global record
	req.Len(s.Query("0", admin), 2)

	visible := s.Query("0", other)
	req.Len(visible, 1)
	req.Equal(event.KindMessageCreated, visible[0].Event.Kind())
}

func TestEventStore_Stats_Counts_Per_Type(t *testing.T) {
	req := require.New(t)
	s := NewEventStore(slog.Default(), 1000, 24*time.Hour)

	s.Append(newMessage("t1", "one", time.Now().UTC()))
	s.Append(newMessage("t1", "two", time.Now().UTC()))
	s.Append(event.CenterUpdated{CenterID: "c1", Fields: []string{"name"}, At: time.Now().UTC()})

	stats := s.Stats()
	req.Equal(3, stats.Count)
	req.Equal(2, stats.PerType[event.KindMessageCreated])
	req.Equal(1, stats.PerType[event.KindCenterUpdated])
	req.False(stats.Newest.Before(stats.Oldest))
}

func TestEventStore_Append_Resets_Buffer_Gone_Out_Of_Order(t *testing.T) {
	req := require.New(t)
	s := NewEventStore(slog.Default(), 1000, 24*time.Hour)

	for i := 0; i < 3; i++ {
		s.Append(newMessage("t1", "hello", time.Now().UTC()))
	}

	// Force the counter backwards so the next record's sequence collides
	// with retained ones. Append must not leave the buffer unordered:
	// the stale records are discarded and the new one stands alone.
	s.mu.Lock()
	s.seq = 1
	s.mu.Unlock()
	rec := s.Append(newMessage("t1", "after reset", time.Now().UTC()))
	req.Equal(uint64(2), rec.Seq)

	survivors := s.Query("0", domain.Identity{UserID: "visitor"})
	req.Len(survivors, 1)
	req.Equal(rec.ID, survivors[0].ID)
	req.Equal(1, s.Stats().Count)
}
