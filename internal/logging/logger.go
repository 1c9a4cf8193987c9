// Package logging provides leveled logging and decision tracing for nudge.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A DecisionLogger for structured JSONL decision traces (.nudge/decisions.jsonl)
//
// Decision traces record every pattern evaluation, timing recommendation
// (with its factor breakdown), admission-filter rejection, and suggestion
// lifecycle transition, so engine tuning can be done offline from real logs.
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug for full content logging.
// At this level, complete behavior-log snapshots are included in traces.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// DecisionLogger writes structured decision events to a JSONL file.
// It is safe for concurrent use. A nil DecisionLogger is safe to use;
// all methods are no-ops on nil receiver.
type DecisionLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewDecisionLogger creates a decision logger writing to dir/decisions.jsonl.
// At "info" level (the default), returns nil and no file is created.
// At "debug" or "trace" level, the file is opened for append.
// Returns nil if the file cannot be opened. All methods are nil-safe.
func NewDecisionLogger(dir string, level string) *DecisionLogger {
	lvl := ParseLevel(level)
	if lvl == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, "decisions.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &DecisionLogger{file: f}
}

// Log writes a decision event as a single JSONL line.
// A "time" field is added automatically. The caller's map is not mutated.
// Safe to call on nil receiver.
func (dl *DecisionLogger) Log(event map[string]any) {
	if dl == nil || dl.file == nil {
		return
	}

	// Copy to avoid mutating caller's map
	entry := make(map[string]any, len(event)+1)
	for k, v := range event {
		entry[k] = v
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	dl.mu.Lock()
	defer dl.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = dl.file.Write(data)
}

// Trigger traces the outcome of one pattern analysis pass.
func (dl *DecisionLogger) Trigger(patternID string, confidence float64, triggered bool, detail map[string]any) {
	event := map[string]any{
		"event":      "trigger",
		"pattern":    patternID,
		"confidence": confidence,
		"triggered":  triggered,
	}
	for k, v := range detail {
		event[k] = v
	}
	dl.Log(event)
}

// Timing traces one timing recommendation with its factor breakdown.
func (dl *DecisionLogger) Timing(tourID string, shouldShow bool, confidence float64, factors any) {
	dl.Log(map[string]any{
		"event":       "timing",
		"tour":        tourID,
		"should_show": shouldShow,
		"confidence":  confidence,
		"factors":     factors,
	})
}

// Lifecycle traces a suggestion state transition or filter rejection.
func (dl *DecisionLogger) Lifecycle(suggestionID, transition, reason string) {
	dl.Log(map[string]any{
		"event":      "lifecycle",
		"suggestion": suggestionID,
		"transition": transition,
		"reason":     reason,
	})
}

// Close closes the underlying file. Safe to call on nil receiver.
func (dl *DecisionLogger) Close() {
	if dl == nil || dl.file == nil {
		return
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	dl.file.Close()
	dl.file = nil
}
