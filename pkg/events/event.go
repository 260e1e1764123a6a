package events

import "time"

// Event is anything the analytics pipeline can put on the bus. The type code
// doubles as the NATS subject suffix, so it stays lowercase and
// dot-separated.
type Event interface {
	// EventType returns the unique code for this event (e.g., "search.performed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation every event here uses. Construct it
// through the typed constructors below so the type codes live in one place.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// SearchPerformedType is published for every completed search. Downstream
// consumers (BI exports, dashboards) subscribe to events.search.performed.
const SearchPerformedType = "search.performed"

func NewSearchPerformed(data map[string]interface{}, occurredAt time.Time) BaseEvent {
	return BaseEvent{
		Type:       SearchPerformedType,
		Data:       data,
		OccurredAt: occurredAt,
	}
}
