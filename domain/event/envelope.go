package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is the transport-agnostic wire shape of one event. The ID doubles
// as the client's resumption cursor; ephemeral events (typing) travel with an
// empty ID since they cannot be resumed.
type Envelope struct {
	ID        string          `json:"id,omitempty"`
	Type      Kind            `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	Scope     string          `json:"scope,omitempty"`
}

// NewEnvelope serializes a domain event into its wire shape. The switch is
// deliberately exhaustive over the closed union: an event kind that was never
// declared here is a programming error and is rejected, not forwarded.
func NewEnvelope(id string, at time.Time, e Event) (Envelope, error) {
	switch e.(type) {
	case MessageCreated, CenterUpdated, ContactMessageCreated, AnnouncementCreated, TypingChanged:
	default:
		return Envelope{}, fmt.Errorf("unknown event type %T", e)
	}

	data, err := json.Marshal(e)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", e.Kind(), err)
	}

	scope := ""
	if e.TargetUser() != "" {
		scope = "user:" + e.TargetUser()
	}
	return Envelope{
		ID:        id,
		Type:      e.Kind(),
		Data:      data,
		Timestamp: at,
		Scope:     scope,
	}, nil
}
