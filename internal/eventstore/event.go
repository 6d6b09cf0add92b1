package eventstore

import "time"

// Event is one step in a render's history. A render contributes a
// RenderStarted event, one StageCompleted per stage, and a closing
// RenderCompleted or RenderFailed.
type Event interface {
	// ID is the store-assigned sequence number, zero until persisted.
	ID() int64
	// BuildID ties the event to the render that produced it.
	BuildID() string
	// Type is one of the Type* constants.
	Type() string
	// Timestamp is when the store recorded the event, at millisecond precision.
	Timestamp() time.Time
	// Payload is the JSON-encoded *Payload struct matching Type.
	Payload() []byte
	// Metadata carries small string tags such as the theme name. May be nil.
	Metadata() map[string]string
}

// BaseEvent is the concrete Event returned by stores and built by the
// New* constructors.
type BaseEvent struct {
	EventID        int64
	EventBuildID   string
	EventType      string
	EventTimestamp time.Time
	EventPayload   []byte
	EventMetadata  map[string]string
}

func (e *BaseEvent) ID() int64                   { return e.EventID }
func (e *BaseEvent) BuildID() string             { return e.EventBuildID }
func (e *BaseEvent) Type() string                { return e.EventType }
func (e *BaseEvent) Timestamp() time.Time        { return e.EventTimestamp }
func (e *BaseEvent) Payload() []byte             { return e.EventPayload }
func (e *BaseEvent) Metadata() map[string]string { return e.EventMetadata }
