package runtime

import (
	"sync"

	"center-hub/domain"

	"github.com/samber/lo"
)

type Set map[string]struct{}

// Registry tracks live sessions and room membership.
//
// Membership is kept both ways (room -> sessions and session -> rooms) so a
// disconnect can purge a session from every room it was in without scanning
// the whole room map. Empty rooms are pruned eagerly: many transient thread
// rooms over a process lifetime must not grow the map forever.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	roomMembers map[domain.RoomKey]Set
	memberRooms map[string]Set
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		roomMembers: make(map[domain.RoomKey]Set),
		memberRooms: make(map[string]Set),
	}
}

// Register starts tracking a session. Joining rooms is a separate step: a
// session may well stay in zero rooms and only receive global events.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

func (r *Registry) Get(sessionID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	return s, ok
}

// Join adds the session to a room. Idempotent: joining twice is a no-op.
// Unknown session IDs are ignored rather than rejected; the session may have
// been purged by the reaper a moment ago.
func (r *Registry) Join(room domain.RoomKey, sessionID string) {
	if room.IsGlobal() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return
	}
	if _, ok := r.roomMembers[room]; !ok {
		r.roomMembers[room] = make(Set)
	}
	r.roomMembers[room][sessionID] = struct{}{}

	if _, ok := r.memberRooms[sessionID]; !ok {
		r.memberRooms[sessionID] = make(Set)
	}
	r.memberRooms[sessionID][string(room)] = struct{}{}
}

// Leave is idempotent and prunes the room entry when the last member leaves.
func (r *Registry) Leave(room domain.RoomKey, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(room, sessionID)
}

func (r *Registry) leaveLocked(room domain.RoomKey, sessionID string) {
	if members, ok := r.roomMembers[room]; ok {
		delete(members, sessionID)
		if len(members) == 0 {
			delete(r.roomMembers, room)
		}
	}
	if rooms, ok := r.memberRooms[sessionID]; ok {
		delete(rooms, string(room))
		if len(rooms) == 0 {
			delete(r.memberRooms, sessionID)
		}
	}
}

// MembersOf resolves the room's member IDs into sessions. A snapshot read:
// the result does not change under the caller's feet. Unknown rooms yield nil.
func (r *Registry) MembersOf(room domain.RoomKey) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[room]
	if !ok {
		return nil
	}
	var out []*Session
	for sessionID := range members {
		if s, exists := r.sessions[sessionID]; exists {
			out = append(out, s)
		}
	}
	return out
}

// AllSessions snapshots every tracked session, for global-scope dispatch and
// the reaper sweep.
func (r *Registry) AllSessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Values(r.sessions)
}

// PurgeSession forgets the session and removes it from every room it joined.
// Called on disconnect; a dangling room reference here would leak memory
// proportional to connection churn.
func (r *Registry) PurgeSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	for room := range r.memberRooms[sessionID] {
		r.leaveLocked(domain.RoomKey(room), sessionID)
	}
	delete(r.memberRooms, sessionID)
}

// Counts reports tracked sessions and non-empty rooms, for the stats endpoint.
func (r *Registry) Counts() (sessions, rooms int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), len(r.roomMembers)
}
