// Package event defines the closed set of realtime events the backend emits.
// Each kind carries its own typed payload; there is no escape hatch for
// untyped data, unknown kinds are rejected when building the wire envelope.
package event

import (
	"center-hub/domain"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindMessageCreated        Kind = "message-created"
	KindCenterUpdated         Kind = "center-updated"
	KindContactMessageCreated Kind = "contact-message-created"
	KindAnnouncementCreated   Kind = "announcement-created"
	KindTypingChanged         Kind = "typing-changed"
)

// Event is the tagged union over all realtime event kinds.
//
// Room scopes delivery to the subscribers of one room; the global room means
// every live session. TargetUser further narrows visibility to a single
// recipient (empty means visible to all subscribers of the room).
type Event interface {
	Kind() Kind
	Room() domain.RoomKey
	TargetUser() string
}

// MessageCreated is emitted after a thread message has been persisted.
type MessageCreated struct {
	ID         uuid.UUID `json:"id"`
	ThreadID   string    `json:"thread_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	At         time.Time `json:"at"`
}

func (e MessageCreated) Kind() Kind           { return KindMessageCreated }
func (e MessageCreated) Room() domain.RoomKey { return domain.ThreadRoom(e.ThreadID) }
func (e MessageCreated) TargetUser() string   { return "" }

// CenterUpdated signals that a center's public profile changed.
// Fields lists the names of the changed attributes, not their values;
// clients refetch what they display.
type CenterUpdated struct {
	CenterID string    `json:"center_id"`
	Name     string    `json:"name"`
	Fields   []string  `json:"fields"`
	At       time.Time `json:"at"`
}

func (e CenterUpdated) Kind() Kind           { return KindCenterUpdated }
func (e CenterUpdated) Room() domain.RoomKey { return domain.CenterRoom(e.CenterID) }
func (e CenterUpdated) TargetUser() string   { return "" }

// ContactMessageCreated is a visitor inquiry about a center. It is
// user-scoped: only the center's administrator should see it.
type ContactMessageCreated struct {
	ID          uuid.UUID `json:"id"`
	CenterID    string    `json:"center_id"`
	AdminID     string    `json:"-"`
	SenderName  string    `json:"sender_name"`
	SenderEmail string    `json:"sender_email"`
	Subject     string    `json:"subject"`
	At          time.Time `json:"at"`
}

func (e ContactMessageCreated) Kind() Kind           { return KindContactMessageCreated }
func (e ContactMessageCreated) Room() domain.RoomKey { return domain.CenterRoom(e.CenterID) }
func (e ContactMessageCreated) TargetUser() string   { return e.AdminID }

// AnnouncementCreated is a site-wide notice from the hub's operators. It is
// the one kind scoped to the global room: every live session receives it,
// room membership notwithstanding.
type AnnouncementCreated struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

func (e AnnouncementCreated) Kind() Kind           { return KindAnnouncementCreated }
func (e AnnouncementCreated) Room() domain.RoomKey { return domain.GlobalRoom }
func (e AnnouncementCreated) TargetUser() string   { return "" }

// TypingChanged is advisory and never stored: loss on disconnect is fine,
// the next keystroke re-sends it.
type TypingChanged struct {
	RoomKey     domain.RoomKey `json:"room"`
	UserID      string         `json:"user_id"`
	DisplayName string         `json:"display_name"`
	Typing      bool           `json:"typing"`
}

func (e TypingChanged) Kind() Kind           { return KindTypingChanged }
func (e TypingChanged) Room() domain.RoomKey { return e.RoomKey }
func (e TypingChanged) TargetUser() string   { return "" }
