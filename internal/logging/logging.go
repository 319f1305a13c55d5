// Package logging wraps charmbracelet/log with the run-correlation id every
// ahogrep invocation carries, so warnings from concurrent workers can be
// told apart in aggregated output.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Logger is the CLI's structured logger, tagged with a per-run id.
type Logger struct {
	*log.Logger
	RunID string
}

// New creates a Logger writing to stderr at the given level.
func New(debug bool) *Logger {
	runID := uuid.NewString()
	l := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "ahogrep",
		ReportTimestamp: false,
	})
	if debug {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.WarnLevel)
	}
	l = l.With("run", runID[:8])
	return &Logger{Logger: l, RunID: runID}
}

// CompileStats logs automaton build diagnostics at debug level.
func (l *Logger) CompileStats(nodesCount, childrenCount int, elapsedMS float64) {
	l.Debug("compiled automaton", "nodes_count", nodesCount, "children_count", childrenCount, "elapsed_ms", elapsedMS)
}
