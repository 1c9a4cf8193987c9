package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"info", "info", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"trace", "trace", LevelTrace},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"unknown defaults to info", "verbose", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLevel(tt.input)
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		logAtDebug bool
	}{
		{"info filters debug", "info", false},
		{"debug passes debug", "debug", true},
		{"trace passes debug", "trace", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)

			logger.Debug("debug message")
			hasDebug := strings.Contains(buf.String(), "debug message")
			if hasDebug != tt.logAtDebug {
				t.Errorf("debug logged = %v, want %v", hasDebug, tt.logAtDebug)
			}

			logger.Info("info message")
			if !strings.Contains(buf.String(), "info message") {
				t.Error("info message should always be logged")
			}
		})
	}
}

func TestNewDecisionLogger_InfoLevelReturnsNil(t *testing.T) {
	dir := t.TempDir()
	dl := NewDecisionLogger(dir, "info")
	if dl != nil {
		t.Fatal("expected nil decision logger at info level")
	}

	// Nil receiver must be safe for every method.
	dl.Log(map[string]any{"event": "noop"})
	dl.Trigger("inactivity", 0.7, true, nil)
	dl.Timing("tour", true, 0.8, nil)
	dl.Lifecycle("id", "pending->active", "shown")
	dl.Close()

	if _, err := os.Stat(filepath.Join(dir, "decisions.jsonl")); !os.IsNotExist(err) {
		t.Error("no decisions file should be created at info level")
	}
}

func TestDecisionLogger_WritesJSONL(t *testing.T) {
	dir := t.TempDir()
	dl := NewDecisionLogger(dir, "debug")
	if dl == nil {
		t.Fatal("expected non-nil decision logger at debug level")
	}

	dl.Trigger("repeated-error", 0.95, true, map[string]any{"page": "/checkout"})
	dl.Timing("checkout-help", false, 0.4, []map[string]any{{"factor": "cognitive_load", "score": 0.0}})
	dl.Lifecycle("sug-1", "pending->active", "shown")
	dl.Close()

	data, err := os.ReadFile(filepath.Join(dir, "decisions.jsonl"))
	if err != nil {
		t.Fatalf("reading decisions file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 JSONL lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 1 is not valid JSON: %v", err)
	}
	if first["event"] != "trigger" || first["pattern"] != "repeated-error" {
		t.Errorf("unexpected trigger event: %v", first)
	}
	if first["page"] != "/checkout" {
		t.Errorf("detail fields should be merged into the event, got %v", first)
	}
	if _, ok := first["time"]; !ok {
		t.Error("time field should be added automatically")
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 2 is not valid JSON: %v", err)
	}
	if second["event"] != "timing" || second["should_show"] != false {
		t.Errorf("unexpected timing event: %v", second)
	}
}

func TestDecisionLogger_DoesNotMutateCallerMap(t *testing.T) {
	dir := t.TempDir()
	dl := NewDecisionLogger(dir, "debug")
	defer dl.Close()

	event := map[string]any{"event": "trigger"}
	dl.Log(event)

	if _, ok := event["time"]; ok {
		t.Error("caller's map must not be mutated")
	}
}
