// Package store holds the bounded in-memory event buffer that backs pull-mode
// delivery and reconnection catch-up. It is not a durable log: retention is
// bounded both by age and by count, whichever bites first.
package store

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"center-hub/domain"
	"center-hub/domain/event"
)

// Record is one immutable entry of the store. ID is the zero-padded sequence
// number; lexicographic order on IDs equals insertion order, which is what
// makes the ID usable as a resumption cursor even when two events share a
// timestamp.
type Record struct {
	Seq   uint64
	ID    string
	At    time.Time
	Event event.Event
}

// Envelope renders the record in its wire shape.
func (r Record) Envelope() (event.Envelope, error) {
	return event.NewEnvelope(r.ID, r.At, r.Event)
}

type Stats struct {
	Count   int                `json:"count"`
	Oldest  time.Time          `json:"oldest,omitempty"`
	Newest  time.Time          `json:"newest,omitempty"`
	PerType map[event.Kind]int `json:"per_type"`
}

// EventStore is safe for concurrent use. Appends and queries serialize on one
// mutex so a query never observes a half-finished eviction pass.
type EventStore struct {
	mu       sync.Mutex
	log      *slog.Logger
	capacity int
	ttl      time.Duration
	now      func() time.Time

	seq     uint64
	records []Record
}

func NewEventStore(log *slog.Logger, capacity int, ttl time.Duration) *EventStore {
	return &EventStore{
		log:      log,
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Append assigns the next sequence and timestamp, inserts the record and runs
// eviction. It never fails: if the buffer turns out to be out of order (which
// should be impossible), it is reset to empty and the append retried on the
// fresh buffer.
func (s *EventStore) Append(e event.Event) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	rec := Record{
		Seq:   s.seq,
		ID:    formatCursor(s.seq),
		At:    s.now().UTC(),
		Event: e,
	}

	if n := len(s.records); n > 0 && s.records[n-1].Seq >= rec.Seq {
		s.log.Error("event buffer out of order, resetting",
			"last_seq", s.records[n-1].Seq, "new_seq", rec.Seq)
		s.records = nil
	}

	s.records = append(s.records, rec)
	s.evictLocked()
	return rec
}

// evictLocked applies the two-phase policy: first drop everything older than
// the TTL, then trim the oldest surplus if the count still exceeds capacity.
// The two bounds are independent so a burst of fresh events cannot grow the
// buffer past capacity even well inside the TTL window.
func (s *EventStore) evictLocked() {
	deadline := s.now().UTC().Add(-s.ttl)
	firstLive := 0
	for firstLive < len(s.records) && !s.records[firstLive].At.After(deadline) {
		firstLive++
	}
	if firstLive > 0 {
		s.records = append(s.records[:0:0], s.records[firstLive:]...)
	}
	if excess := len(s.records) - s.capacity; excess > 0 {
		s.records = append(s.records[:0:0], s.records[excess:]...)
	}
}

// Query returns a fresh snapshot of every retained record strictly after the
// cursor that the given identity may see: globally scoped records plus the
// ones targeted at that user. An unparseable cursor means "start of the
// retention window".
func (s *EventStore) Query(cursor string, identity domain.Identity) []Record {
	after := ParseCursor(cursor)

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Record
	for _, rec := range s.records {
		if rec.Seq <= after {
			continue
		}
		if target := rec.Event.TargetUser(); target != "" && target != identity.UserID {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (s *EventStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		Count:   len(s.records),
		PerType: make(map[event.Kind]int),
	}
	for _, rec := range s.records {
		stats.PerType[rec.Event.Kind()]++
	}
	if len(s.records) > 0 {
		stats.Oldest = s.records[0].At
		stats.Newest = s.records[len(s.records)-1].At
	}
	return stats
}

// ParseCursor is permissive: "0", "" and garbage all mean "from the start".
func ParseCursor(cursor string) uint64 {
	seq, err := strconv.ParseUint(cursor, 10, 64)
	if err != nil {
		return 0
	}
	return seq
}

// formatCursor pads to 19 digits so cursors sort lexicographically,
// the same trick the message repository uses for its Badger keys.
func formatCursor(seq uint64) string {
	return fmt.Sprintf("%019d", seq)
}
