package host

import (
	"strings"
	"testing"
)

func TestDispatcher_PublishRoutesbyKind(t *testing.T) {
	d := NewDispatcher()

	var clicks, errors int
	d.Subscribe(KindInteraction, func(e Event) { clicks++ })
	d.Subscribe(KindError, func(e Event) { errors++ })

	d.Publish(Event{Kind: KindInteraction, Element: "save-button"})
	d.Publish(Event{Kind: KindInteraction, Element: "cancel-button"})
	d.Publish(Event{Kind: KindError, ErrorType: "validation", ErrorContext: "/checkout"})

	if clicks != 2 {
		t.Errorf("interaction handler fired %d times, want 2", clicks)
	}
	if errors != 1 {
		t.Errorf("error handler fired %d times, want 1", errors)
	}
}

func TestDispatcher_Unsubscribe(t *testing.T) {
	d := NewDispatcher()

	var fired int
	unsub := d.Subscribe(KindScroll, func(e Event) { fired++ })

	d.Publish(Event{Kind: KindScroll})
	unsub()
	d.Publish(Event{Kind: KindScroll})

	if fired != 1 {
		t.Errorf("handler fired %d times, want 1 (unsubscribed after first)", fired)
	}
	if got := d.SubscriberCount(KindScroll); got != 0 {
		t.Errorf("SubscriberCount = %d after unsubscribe, want 0", got)
	}

	// Double unsubscribe is a no-op.
	unsub()
}

func TestReadLog(t *testing.T) {
	input := `# warm-up session
{"at_ms": 0, "kind": "navigation", "path": "/dashboard"}
{"at_ms": 1500, "kind": "interaction", "element": "export-button", "success": true}

{"at_ms": 4000, "kind": "error", "error_type": "validation", "error_context": "/dashboard"}
`
	records, err := ReadLog(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (comments and blanks skipped)", len(records))
	}
	if records[0].Kind != "navigation" || records[0].Path != "/dashboard" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].Success == nil || !*records[1].Success {
		t.Errorf("success flag not parsed: %+v", records[1])
	}
	if records[2].AtMs != 4000 {
		t.Errorf("at_ms = %d, want 4000", records[2].AtMs)
	}
}

func TestReadLog_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid json", `{"at_ms": 0, "kind"`},
		{"missing kind", `{"at_ms": 0}`},
		{"out of order", "{\"at_ms\": 100, \"kind\": \"scroll\"}\n{\"at_ms\": 50, \"kind\": \"scroll\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadLog(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
