package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyUnit       = "unit"
	KeyObject     = "object"
	KeyVersion    = "version"
	KeyDecision   = "decision"
	KeyDurationMS = "duration_ms"
	KeyCommit     = "commit"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Unit(script string) slog.Attr     { return slog.String(KeyUnit, script) }
func Object(name string) slog.Attr     { return slog.String(KeyObject, name) }
func Version(v string) slog.Attr       { return slog.String(KeyVersion, v) }
func Decision(d string) slog.Attr      { return slog.String(KeyDecision, d) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Commit(sha string) slog.Attr      { return slog.String(KeyCommit, sha) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
