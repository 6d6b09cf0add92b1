package eventstore

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
)

// Event type names as stored in the events table.
const (
	TypeRenderStarted   = "RenderStarted"
	TypeStageCompleted  = "StageCompleted"
	TypeRenderCompleted = "RenderCompleted"
	TypeRenderFailed    = "RenderFailed"
)

// RenderStartedPayload describes what is being rendered.
type RenderStartedPayload struct {
	Theme    string `json:"theme"`
	Dest     string `json:"dest"`
	DataFile string `json:"data_file,omitempty"`
	Trigger  string `json:"trigger,omitempty"` // cli, watch, interval
}

// StageCompletedPayload records one pipeline stage.
type StageCompletedPayload struct {
	Stage      string `json:"stage"`
	Result     string `json:"result"`
	DurationMS int64  `json:"duration_ms"`
}

// RenderCompletedPayload closes a successful render.
type RenderCompletedPayload struct {
	Outcome    string `json:"outcome"`
	Entities   int    `json:"entities"`
	Files      int    `json:"files"`
	DurationMS int64  `json:"duration_ms"`
}

// RenderFailedPayload closes a failed or canceled render.
type RenderFailedPayload struct {
	Outcome    string `json:"outcome"`
	Stage      string `json:"stage"`
	Error      string `json:"error"`
	DurationMS int64  `json:"duration_ms"`
}

func newEvent(buildID, eventType string, payload any) (*BaseEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "marshal event payload").
			WithContext("build_id", buildID).
			WithContext("event_type", eventType).
			Build()
	}
	return &BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   raw,
	}, nil
}

// NewRenderStarted creates a RenderStarted event.
func NewRenderStarted(buildID string, p RenderStartedPayload) (*BaseEvent, error) {
	e, err := newEvent(buildID, TypeRenderStarted, p)
	if err != nil {
		return nil, err
	}
	e.EventMetadata = map[string]string{"theme": p.Theme}
	return e, nil
}

// NewStageCompleted creates a StageCompleted event.
func NewStageCompleted(buildID, stage, result string, d time.Duration) (*BaseEvent, error) {
	return newEvent(buildID, TypeStageCompleted, StageCompletedPayload{
		Stage:      stage,
		Result:     result,
		DurationMS: d.Milliseconds(),
	})
}

// NewRenderCompleted creates a RenderCompleted event.
func NewRenderCompleted(buildID string, p RenderCompletedPayload) (*BaseEvent, error) {
	return newEvent(buildID, TypeRenderCompleted, p)
}

// NewRenderFailed creates a RenderFailed event.
func NewRenderFailed(buildID string, p RenderFailedPayload) (*BaseEvent, error) {
	return newEvent(buildID, TypeRenderFailed, p)
}
