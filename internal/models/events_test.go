package models

import (
	"testing"
	"time"
)

func TestCurrentPage(t *testing.T) {
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	log := NewBehaviorLog("s1", "", now)

	if got := log.CurrentPage(); got != "" {
		t.Errorf("CurrentPage on empty log = %q, want empty", got)
	}

	log.NavigationPath = []string{"/home", "/settings"}
	if got := log.CurrentPage(); got != "/settings" {
		t.Errorf("CurrentPage = %q, want %q", got, "/settings")
	}
}

func TestWindowedAccessors(t *testing.T) {
	base := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	log := NewBehaviorLog("s1", "", base)
	log.Errors = []ErrorEvent{
		{Type: "validation", Context: "settings", Timestamp: base},
		{Type: "validation", Context: "settings", Timestamp: base.Add(2 * time.Minute)},
		{Type: "network", Context: "dashboard", Timestamp: base.Add(4 * time.Minute)},
	}
	log.Clicks = []ClickEvent{
		{Element: "#save", Timestamp: base.Add(time.Minute)},
		{Element: "#save", Timestamp: base.Add(3 * time.Minute)},
	}
	log.AbandonedActions = []AbandonedAction{
		{Action: "import", Step: "mapping", Timestamp: base.Add(time.Minute)},
	}

	cutoff := base.Add(2 * time.Minute)

	// Cutoff is inclusive: the event exactly at the cutoff counts.
	if got := log.ErrorsSince(cutoff); len(got) != 2 {
		t.Errorf("ErrorsSince returned %d errors, want 2", len(got))
	}
	if got := log.ClicksSince(cutoff); len(got) != 1 {
		t.Errorf("ClicksSince returned %d clicks, want 1", len(got))
	}
	if got := log.AbandonedSince(cutoff); len(got) != 0 {
		t.Errorf("AbandonedSince returned %d actions, want 0", len(got))
	}
	if got := log.ErrorsSince(base); len(got) != 3 {
		t.Errorf("ErrorsSince(start) returned %d errors, want 3", len(got))
	}
}

func TestPriorityRank(t *testing.T) {
	order := []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow, Priority("bogus")}
	for i := 0; i < len(order)-1; i++ {
		if order[i].Rank() <= order[i+1].Rank() {
			t.Errorf("Rank(%s) = %d should exceed Rank(%s) = %d",
				order[i], order[i].Rank(), order[i+1], order[i+1].Rank())
		}
	}
}

func TestSuggestionExpired(t *testing.T) {
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	s := &ContextualSuggestion{ExpiresAt: now.Add(time.Minute)}
	if s.Expired(now) {
		t.Error("suggestion before its deadline reported expired")
	}
	if !s.Expired(now.Add(2 * time.Minute)) {
		t.Error("suggestion past its deadline not reported expired")
	}

	// A zero deadline means no expiration.
	never := &ContextualSuggestion{}
	if never.Expired(now.Add(24 * time.Hour)) {
		t.Error("zero-deadline suggestion reported expired")
	}
}
