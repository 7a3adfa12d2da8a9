// Package push streams graphication results to HTTP clients. A Run's
// intermediate results travel as Server-Sent Events, one Message per frame.
package push

import (
	"encoding/json"
	"fmt"

	"github.com/Aequivinius/lodqa/internal/graphicator"
	"github.com/google/uuid"
)

// EventError is sent in place of further events when a Run fails.
const EventError = "error"

// Message is one pushed event. Data holds the JSON of the event payload:
// a graphicator.ParseRendering for parse_rendering, an nlp.PGP for
// anchored_pgp and an ErrorData for error.
type Message struct {
	ID    string          `json:"id"`
	Event string          `json:"event"`
	Query string          `json:"query,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`

	// Err is set by ReadMessages when a frame cannot be decoded.
	Err error `json:"-"`
}

// ErrorData is the payload of an error message.
type ErrorData struct {
	Message string `json:"message"`
	Stage   string `json:"stage,omitempty"`
}

// NewMessage wraps payload into a Message with a fresh ID.
func NewMessage(event, query string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("push: marshal %s payload: %w", event, err)
	}
	return Message{
		ID:    uuid.NewString(),
		Event: event,
		Query: query,
		Data:  data,
	}, nil
}

// Decode unmarshals the message payload into v.
func (m Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("push: %s message has no data", m.Event)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("push: decode %s payload: %w", m.Event, err)
	}
	return nil
}

// IsKnownEvent reports whether event is one a Run or the server emits.
func IsKnownEvent(event string) bool {
	switch event {
	case graphicator.EventParseRendering, graphicator.EventAnchoredPGP, EventError:
		return true
	}
	return false
}
