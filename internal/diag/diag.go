// Package diag centralises the recoverable-warning reporting the engine
// needs per the error-handling design: triangle-inequality violations,
// rank deficiency, dimension mismatches and singular matrices are all
// locally recoverable conditions that the caller should nonetheless see.
package diag

import (
	"fmt"

	"github.com/lunny/log"
)

// Logger collects warnings raised during a reconstruction run. Default
// logs through github.com/lunny/log; the engine's constructors replace a
// nil Logger with NopLogger, which discards. Tests typically substitute a
// *Recorder so assertions don't depend on stderr.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// Default logs through the process-wide lunny/log logger, prefixed so
// engine warnings are distinguishable from caller-side log lines.
type Default struct{}

func (Default) Warnf(format string, args ...interface{}) {
	log.Warnf("dgrecon: "+format, args...)
}

// Recorder accumulates warnings in memory instead of writing them out.
// Components that count violations (e.g. the restraint compiler's
// triangle-smoothing pass) use both: Warnf for the human-readable message
// and a local counter for the count the caller inspects programmatically.
type Recorder struct {
	Messages []string
}

func (r *Recorder) Warnf(format string, args ...interface{}) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// NopLogger discards everything; useful where a Logger is required but
// the caller has already decided not to care.
type NopLogger struct{}

func (NopLogger) Warnf(string, ...interface{}) {}
