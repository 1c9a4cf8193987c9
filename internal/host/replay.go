package host

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Record is one line of a JSONL session log used by `nudge simulate`.
// AtMs is the event's offset from session start in milliseconds; the
// simulator advances a virtual clock to it before replaying the event.
type Record struct {
	AtMs int64  `json:"at_ms"`
	Kind string `json:"kind"`

	// Interaction / error fields, mirroring Event.
	Element      string `json:"element,omitempty"`
	Success      *bool  `json:"success,omitempty"`
	Path         string `json:"path,omitempty"`
	Back         bool   `json:"back,omitempty"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorContext string `json:"error_context,omitempty"`

	// Direct tracking calls that bypass the four host kinds.
	Feature string `json:"feature,omitempty"`
	Action  string `json:"action,omitempty"`
	Step    string `json:"step,omitempty"`
	Help    string `json:"help,omitempty"`
}

// ReadLog parses a JSONL session log. Blank lines and lines starting with
// '#' are skipped. Records must be ordered by at_ms; out-of-order records
// are an error since the simulator cannot rewind its clock.
func ReadLog(r io.Reader) ([]Record, error) {
	var records []Record
	var lastMs int64

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if rec.Kind == "" {
			return nil, fmt.Errorf("line %d: missing kind", lineNo)
		}
		if rec.AtMs < lastMs {
			return nil, fmt.Errorf("line %d: at_ms %d precedes previous record at %d", lineNo, rec.AtMs, lastMs)
		}
		lastMs = rec.AtMs

		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}

	return records, nil
}
