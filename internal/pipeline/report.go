package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"git.home.luguber.info/inful/sassdoc-theme/internal/site"
)

// Outcome is the final status of a render.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// StageCount aggregates outcomes for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// Report captures what one render did.
type Report struct {
	BuildID  string
	Theme    string
	Dest     string
	Trigger  string
	Start    time.Time
	End      time.Time
	Outcome  Outcome
	Entities int
	Assets   []string
	Pages    []string
	Passes   []string
	// Errors holds the fatal or canceled stage error, if any.
	Errors          []error
	Warnings        []error
	StageOrder      []StageName
	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
}

func newReport(buildID, trigger string) *Report {
	return &Report{
		BuildID:         buildID,
		Trigger:         trigger,
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

func (r *Report) recordStage(name StageName, d time.Duration, se *StageError) {
	r.StageOrder = append(r.StageOrder, name)
	r.StageDurations[name] = d
	sc := r.StageCounts[name]
	if se == nil {
		sc.Success++
		r.StageCounts[name] = sc
		return
	}
	r.StageErrorKinds[name] = se.Kind
	switch se.Kind {
	case StageErrorWarning:
		sc.Warning++
		r.Warnings = append(r.Warnings, se)
	case StageErrorCanceled:
		sc.Canceled++
		r.Errors = append(r.Errors, se)
	default:
		sc.Fatal++
		r.Errors = append(r.Errors, se)
	}
	r.StageCounts[name] = sc
}

func (r *Report) finish() {
	r.End = time.Now()
	switch {
	case len(r.Errors) > 0:
		r.Outcome = OutcomeFailed
		for _, e := range r.Errors {
			if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
			}
		}
	case len(r.Warnings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Duration is End - Start.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// Files is the number of files written.
func (r *Report) Files() int { return len(r.Assets) + len(r.Pages) }

// FailedStage returns the stage that aborted the render, or "".
func (r *Report) FailedStage() StageName {
	for _, e := range r.Errors {
		if se, ok := e.(*StageError); ok {
			return se.Stage
		}
	}
	return ""
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("theme=%s entities=%d files=%d duration=%s errors=%d warnings=%d stages=%d outcome=%s",
		r.Theme, r.Entities, r.Files(), r.Duration().Truncate(time.Millisecond),
		len(r.Errors), len(r.Warnings), len(r.StageOrder), r.Outcome)
}

type reportJSON struct {
	SchemaVersion   int                   `json:"schema_version"`
	BuildID         string                `json:"build_id"`
	Theme           string                `json:"theme"`
	Dest            string                `json:"dest"`
	Trigger         string                `json:"trigger,omitempty"`
	Start           time.Time             `json:"start"`
	End             time.Time             `json:"end"`
	DurationMS      int64                 `json:"duration_ms"`
	Outcome         Outcome               `json:"outcome"`
	Entities        int                   `json:"entities"`
	Files           int                   `json:"files"`
	Passes          []string              `json:"passes,omitempty"`
	Errors          []string              `json:"errors,omitempty"`
	Warnings        []string              `json:"warnings,omitempty"`
	StageDurations  map[string]int64      `json:"stage_durations_ms"`
	StageErrorKinds map[string]string     `json:"stage_error_kinds,omitempty"`
	StageCounts     map[string]StageCount `json:"stage_counts"`
}

// MarshalJSON renders errors as strings and durations as milliseconds.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		SchemaVersion:   1,
		BuildID:         r.BuildID,
		Theme:           r.Theme,
		Dest:            r.Dest,
		Trigger:         r.Trigger,
		Start:           r.Start,
		End:             r.End,
		DurationMS:      r.Duration().Milliseconds(),
		Outcome:         r.Outcome,
		Entities:        r.Entities,
		Files:           r.Files(),
		Passes:          r.Passes,
		StageDurations:  make(map[string]int64, len(r.StageDurations)),
		StageErrorKinds: make(map[string]string, len(r.StageErrorKinds)),
		StageCounts:     make(map[string]StageCount, len(r.StageCounts)),
	}
	for _, e := range r.Errors {
		out.Errors = append(out.Errors, e.Error())
	}
	for _, w := range r.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}
	for k, v := range r.StageDurations {
		out.StageDurations[string(k)] = v.Milliseconds()
	}
	for k, v := range r.StageErrorKinds {
		out.StageErrorKinds[string(k)] = string(v)
	}
	for k, v := range r.StageCounts {
		out.StageCounts[string(k)] = v
	}
	return json.Marshal(out)
}

// Persist writes the report as JSON to dir/name atomically.
func (r *Report) Persist(dir, name string) error {
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if _, err := site.WriteFile(dir, name, raw); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
