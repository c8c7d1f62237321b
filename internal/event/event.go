package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keycalc/internal/event/topic"
)

// Calculator topics.
const (
	TopicResult         topic.Topic = "calc.result"
	TopicError          topic.Topic = "calc.error"
	TopicCleared        topic.Topic = "calc.cleared"
	TopicConfigReloaded topic.Topic = "config.reloaded"
)

// Event is a published occurrence. Events are immutable once created.
type Event struct {
	// Topic is the hierarchical event type (e.g., "calc.result").
	Topic topic.Topic

	// Payload contains the event-specific data.
	Payload any

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// New creates a new event with the given topic and payload.
func New(t topic.Topic, payload any, source string) Event {
	return Event{
		Topic:   t,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// ResultPayload describes a completed evaluation. Numbers are formatted
// with the calculator's decimal separator.
type ResultPayload struct {
	Left     string
	Operator string
	Right    string
	Result   string
}

// ErrorPayload describes a failed action.
type ErrorPayload struct {
	Action  string
	Message string
	Err     error
}

// ConfigPayload describes a configuration reload.
type ConfigPayload struct {
	Path string
	Err  error
}
