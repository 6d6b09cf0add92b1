package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyTheme      = "theme"
	KeyTemplate   = "template"
	KeyOutput     = "output"
	KeyPath       = "path"
	KeyPass       = "pass"
	KeyEntities   = "entities"
	KeyFiles      = "files"
	KeyOutcome    = "outcome"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Theme(name string) slog.Attr     { return slog.String(KeyTheme, name) }
func Template(name string) slog.Attr  { return slog.String(KeyTemplate, name) }
func Output(path string) slog.Attr    { return slog.String(KeyOutput, path) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Pass(name string) slog.Attr      { return slog.String(KeyPass, name) }
func Entities(n int) slog.Attr        { return slog.Int(KeyEntities, n) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
