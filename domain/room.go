package domain

import "strings"

// RoomKey identifies a broadcast scope: a center page or a message thread.
// The zero value means "global", i.e. every connected session.
type RoomKey string

const GlobalRoom RoomKey = ""

func CenterRoom(centerID string) RoomKey {
	return RoomKey("center:" + centerID)
}

func ThreadRoom(threadID string) RoomKey {
	return RoomKey("thread:" + threadID)
}

// ParseRoomKey accepts the "center:<id>" / "thread:<id>" forms used on the
// wire. Anything else is returned as-is: an unknown room simply has no
// members, it is never an error.
func ParseRoomKey(raw string) RoomKey {
	return RoomKey(strings.TrimSpace(raw))
}

func (k RoomKey) IsGlobal() bool {
	return k == GlobalRoom
}

func (k RoomKey) String() string {
	return string(k)
}
