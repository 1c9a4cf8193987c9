package engine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/waltergaltieri/nudge/internal/config"
	"github.com/waltergaltieri/nudge/internal/host"
	"github.com/waltergaltieri/nudge/internal/models"
	"github.com/waltergaltieri/nudge/internal/schedule"
	"github.com/waltergaltieri/nudge/internal/timing"
)

// 10:00 UTC, inside the default 9-11 optimal window.
var engineStart = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

// hookLog records lifecycle hook invocations.
type hookLog struct {
	mu        sync.Mutex
	created   []string
	shown     []string
	accepted  []string
	dismissed []string
	reasons   []string
	expired   []string
}

func (h *hookLog) hooks() Hooks {
	return Hooks{
		OnCreated: func(s models.ContextualSuggestion) {
			h.mu.Lock()
			h.created = append(h.created, s.ID)
			h.mu.Unlock()
		},
		OnShown: func(s models.ContextualSuggestion) {
			h.mu.Lock()
			h.shown = append(h.shown, s.ID)
			h.mu.Unlock()
		},
		OnAccepted: func(s models.ContextualSuggestion) {
			h.mu.Lock()
			h.accepted = append(h.accepted, s.ID)
			h.mu.Unlock()
		},
		OnDismissed: func(s models.ContextualSuggestion, reason string) {
			h.mu.Lock()
			h.dismissed = append(h.dismissed, s.ID)
			h.reasons = append(h.reasons, reason)
			h.mu.Unlock()
		},
		OnExpired: func(s models.ContextualSuggestion) {
			h.mu.Lock()
			h.expired = append(h.expired, s.ID)
			h.mu.Unlock()
		},
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("sug-%d", n)
	}
}

// newTestEngine builds an orchestrator on a virtual clock with the
// periodic driver disabled so tests control every tick.
func newTestEngine(t *testing.T, mutate func(*config.NudgeConfig)) (*Orchestrator, *schedule.ManualScheduler, *hookLog) {
	t.Helper()

	cfg := config.Default()
	cfg.Engine.AnalysisInterval = 0
	if mutate != nil {
		mutate(cfg)
	}

	sched := schedule.NewManualScheduler(engineStart)
	hl := &hookLog{}
	o := New(cfg, Options{
		SessionID: "session-1",
		UserID:    "user-1",
		Scheduler: sched,
		Hooks:     hl.hooks(),
		NewID:     sequentialIDs(),
	})
	t.Cleanup(o.Destroy)
	return o, sched, hl
}

func trigger(tour string, p models.Priority) *models.TriggerResult {
	return &models.TriggerResult{
		PatternID:  "inactivity",
		TourID:     tour,
		Reason:     "test trigger",
		Confidence: 0.8,
		Priority:   p,
		Message:    "want a tour?",
	}
}

func TestTriggerQueuesAndShows(t *testing.T) {
	o, sched, hl := newTestEngine(t, nil)

	s, reject := o.HandleBehaviorTrigger(trigger("getting-started", models.PriorityMedium))
	if reject != "" {
		t.Fatalf("rejected: %s", reject)
	}
	if s.State != models.StatePending {
		t.Errorf("state = %s, want pending", s.State)
	}
	if got := o.GetQueueStatus().Pending; got != 1 {
		t.Errorf("pending = %d, want 1", got)
	}

	sched.Advance(time.Minute)
	active := o.GetActiveSuggestion()
	if active == nil || active.ID != s.ID {
		t.Fatalf("active = %+v, want %s", active, s.ID)
	}
	if active.State != models.StateActive || active.ShownAt == nil {
		t.Errorf("active not marked shown: %+v", active)
	}
	if len(hl.shown) != 1 || hl.shown[0] != s.ID {
		t.Errorf("shown hooks = %v", hl.shown)
	}
	if got := o.GetQueueStatus().Pending; got != 0 {
		t.Errorf("pending after show = %d, want 0", got)
	}
}

func TestAcceptCompletesAndLearns(t *testing.T) {
	o, sched, hl := newTestEngine(t, nil)

	s, _ := o.HandleBehaviorTrigger(trigger("getting-started", models.PriorityMedium))
	sched.Advance(time.Minute)

	if !o.Accept("") {
		t.Fatal("Accept(active) = false")
	}
	st := o.GetQueueStatus()
	if st.ActiveID != "" || st.Completed != 1 {
		t.Errorf("status after accept = %+v", st)
	}
	if len(hl.accepted) != 1 || hl.accepted[0] != s.ID {
		t.Errorf("accepted hooks = %v", hl.accepted)
	}
	if p := o.Timing().PreferenceFor("getting-started"); p >= 1.0 {
		t.Errorf("preference after accept = %v, want < 1.0", p)
	}

	// Terminal suggestions cannot transition again.
	if o.Accept(s.ID) || o.Dismiss(s.ID, "late") {
		t.Error("terminal suggestion accepted a second transition")
	}
}

func TestDismissRecordsReason(t *testing.T) {
	o, sched, hl := newTestEngine(t, nil)

	s, _ := o.HandleBehaviorTrigger(trigger("getting-started", models.PriorityMedium))
	sched.Advance(time.Minute)

	if !o.Dismiss(s.ID, "not now") {
		t.Fatal("Dismiss = false")
	}
	if len(hl.dismissed) != 1 || hl.reasons[0] != "not now" {
		t.Errorf("dismissed = %v, reasons = %v", hl.dismissed, hl.reasons)
	}
	if p := o.Timing().PreferenceFor("getting-started"); p <= 1.0 {
		t.Errorf("preference after dismiss = %v, want > 1.0", p)
	}
	if st := o.GetQueueStatus(); st.Dismissed != 1 {
		t.Errorf("status = %+v", st)
	}
}

func TestUnknownIDIsRejected(t *testing.T) {
	o, _, _ := newTestEngine(t, nil)

	if o.Accept("no-such-id") {
		t.Error("Accept(unknown) = true")
	}
	if o.Dismiss("no-such-id", "") {
		t.Error("Dismiss(unknown) = true")
	}
	if o.Accept("") {
		t.Error("Accept with no active suggestion = true")
	}
	if o.RetrySuggestion("no-such-id") {
		t.Error("RetrySuggestion(unknown) = true")
	}
}

func TestAtMostOneActiveAndRetryBound(t *testing.T) {
	o, sched, hl := newTestEngine(t, nil)

	a, _ := o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityHigh))
	b, _ := o.HandleBehaviorTrigger(trigger("tour-b", models.PriorityMedium))

	// A shows first; B's timer keeps firing against an occupied slot and
	// the cooldown until its two retries run out.
	sched.Advance(10 * time.Minute)

	active := o.GetActiveSuggestion()
	if active == nil || active.ID != a.ID {
		t.Fatalf("active = %+v, want %s", active, a.ID)
	}
	if len(hl.shown) != 1 {
		t.Errorf("shown = %v, want only %s", hl.shown, a.ID)
	}
	if len(hl.expired) != 1 || hl.expired[0] != b.ID {
		t.Errorf("expired = %v, want %s", hl.expired, b.ID)
	}
	if st := o.GetQueueStatus(); st.Expired != 1 || st.Pending != 0 {
		t.Errorf("status = %+v", st)
	}
}

func TestCooldownBetweenShows(t *testing.T) {
	o, sched, _ := newTestEngine(t, nil)

	o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityMedium))
	sched.Advance(time.Minute)
	if o.GetActiveSuggestion() == nil {
		t.Fatal("first suggestion never shown")
	}
	o.Accept("")

	// Second candidate arrives during the 5 minute cooldown: admission
	// rejects it outright.
	if _, reject := o.HandleBehaviorTrigger(trigger("tour-b", models.PriorityMedium)); reject != FilterCooldown {
		t.Errorf("reject = %q, want %q", reject, FilterCooldown)
	}

	sched.Advance(5 * time.Minute)
	s, reject := o.HandleBehaviorTrigger(trigger("tour-b", models.PriorityMedium))
	if reject != "" {
		t.Fatalf("rejected after cooldown: %s", reject)
	}
	sched.Advance(time.Minute)
	if active := o.GetActiveSuggestion(); active == nil || active.ID != s.ID {
		t.Errorf("active = %+v, want %s", active, s.ID)
	}
}

func TestSessionCap(t *testing.T) {
	o, sched, _ := newTestEngine(t, func(cfg *config.NudgeConfig) {
		cfg.Engine.MaxSuggestionsPerSession = 1
		cfg.Engine.SuggestionCooldown = 0
	})

	o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityMedium))
	sched.Advance(time.Minute)
	o.Accept("")

	if _, reject := o.HandleBehaviorTrigger(trigger("tour-b", models.PriorityMedium)); reject != FilterSessionCap {
		t.Errorf("reject = %q, want %q", reject, FilterSessionCap)
	}
}

func TestPriorityOrdering(t *testing.T) {
	o, _, _ := newTestEngine(t, func(cfg *config.NudgeConfig) {
		cfg.Engine.SuggestionCooldown = 0
		cfg.Engine.MaxSuggestionsPerSession = 0
	})

	low, _ := o.HandleBehaviorTrigger(trigger("tour-low", models.PriorityLow))
	crit, _ := o.HandleBehaviorTrigger(trigger("tour-crit", models.PriorityCritical))
	med, _ := o.HandleBehaviorTrigger(trigger("tour-med", models.PriorityMedium))

	var order []string
	for i := 0; i < 3; i++ {
		s := o.ShowNextSuggestion()
		if s == nil {
			t.Fatalf("ShowNextSuggestion returned nil at %d", i)
		}
		order = append(order, s.ID)
		o.Accept(s.ID)
	}

	want := []string{crit.ID, med.ID, low.ID}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("show order = %v, want %v", order, want)
		}
	}
}

func TestQueueCapacity(t *testing.T) {
	o, _, _ := newTestEngine(t, func(cfg *config.NudgeConfig) {
		cfg.Engine.MaxPendingSuggestions = 2
	})

	o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityMedium))
	o.HandleBehaviorTrigger(trigger("tour-b", models.PriorityMedium))
	if _, reject := o.HandleBehaviorTrigger(trigger("tour-c", models.PriorityMedium)); reject != FilterQueueCapacity {
		t.Errorf("reject = %q, want %q", reject, FilterQueueCapacity)
	}
}

func TestDuplicateFilter(t *testing.T) {
	o, _, _ := newTestEngine(t, nil)

	o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityMedium))
	if _, reject := o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityMedium)); reject != FilterDuplicate {
		t.Errorf("reject = %q, want %q", reject, FilterDuplicate)
	}
}

func TestMinPriorityFilter(t *testing.T) {
	o, _, _ := newTestEngine(t, func(cfg *config.NudgeConfig) {
		cfg.Engine.MinPriority = "high"
	})

	if _, reject := o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityMedium)); reject != FilterMinPriority {
		t.Errorf("reject = %q, want %q", reject, FilterMinPriority)
	}
	if _, reject := o.HandleBehaviorTrigger(trigger("tour-b", models.PriorityHigh)); reject != "" {
		t.Errorf("high priority rejected: %s", reject)
	}
}

func TestContextFilterExpiresOnNavigation(t *testing.T) {
	o, _, hl := newTestEngine(t, nil)

	o.TrackEvent(host.Event{Kind: host.KindNavigation, Path: "/reports"})
	s, reject := o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityMedium))
	if reject != "" {
		t.Fatalf("rejected: %s", reject)
	}
	if s.PageContext != "/reports" {
		t.Fatalf("page context = %q, want /reports", s.PageContext)
	}

	o.TrackEvent(host.Event{Kind: host.KindNavigation, Path: "/settings"})

	st := o.GetQueueStatus()
	if st.Pending != 0 || st.Expired != 1 || st.Dismissed != 0 {
		t.Errorf("status = %+v, want the suggestion expired, not dismissed", st)
	}
	if len(hl.expired) != 1 || hl.expired[0] != s.ID {
		t.Errorf("expired hooks = %v", hl.expired)
	}
	// Expiry is not feedback: the tour keeps its neutral preference.
	if p := o.Timing().PreferenceFor("tour-a"); p != 1.0 {
		t.Errorf("preference = %v, want 1.0", p)
	}
}

func TestPageContextDebounce(t *testing.T) {
	o, _, _ := newTestEngine(t, nil)

	o.TrackEvent(host.Event{Kind: host.KindNavigation, Path: "/reports"})
	s, _ := o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityMedium))

	// Re-announcing the same page must not disturb the queue.
	o.UpdatePageContext("/reports")
	o.UpdatePageContext("/reports")

	if st := o.GetQueueStatus(); st.Pending != 1 || st.Expired != 0 {
		t.Errorf("status = %+v, suggestion %s should still be pending", st, s.ID)
	}
}

func TestExpirationSweep(t *testing.T) {
	o, sched, hl := newTestEngine(t, func(cfg *config.NudgeConfig) {
		cfg.Engine.MaxRetries = 50
		cfg.Engine.SuggestionCooldown = 0
	})

	// Occupy the active slot so the second suggestion stays pending past
	// its deadline.
	a, _ := o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityHigh))
	sched.Advance(time.Minute)
	if active := o.GetActiveSuggestion(); active == nil || active.ID != a.ID {
		t.Fatal("setup: tour-a not active")
	}

	b, reject := o.HandleBehaviorTrigger(trigger("tour-b", models.PriorityMedium))
	if reject != "" {
		t.Fatalf("tour-b rejected: %s", reject)
	}
	sched.Advance(31 * time.Minute)
	if n := o.ClearExpiredSuggestions(); n > 1 {
		t.Errorf("swept %d, want at most 1", n)
	}

	st := o.GetQueueStatus()
	if st.Pending != 0 {
		t.Errorf("pending = %d, want 0", st.Pending)
	}
	found := false
	for _, id := range hl.expired {
		if id == b.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("expired hooks = %v, want to include %s", hl.expired, b.ID)
	}
}

// floodErrors pushes the timing context unfavorable: an error-heavy
// interaction log drives cognitive load high and interruptibility low.
func floodErrors(o *Orchestrator) {
	for i := 0; i < 40; i++ {
		o.Timing().TrackInteraction(timing.InteractionError, false)
	}
}

func TestDeferredSuggestionWaitsForItsMoment(t *testing.T) {
	o, _, _ := newTestEngine(t, nil)
	floodErrors(o)

	s, reject := o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityHigh))
	if reject != "" {
		t.Fatalf("rejected: %s", reject)
	}
	if s.ShouldShowNow || s.AlternativeTime == nil {
		t.Fatalf("suggestion = %+v, want deferred with an alternative time", s)
	}

	// A deferred suggestion that was never retried is not eligible for an
	// explicit show request either.
	if got := o.ShowNextSuggestion(); got != nil {
		t.Errorf("ShowNextSuggestion = %+v, want nil", got)
	}
	if st := o.GetQueueStatus(); st.Pending != 1 {
		t.Errorf("pending = %d, want 1", st.Pending)
	}
}

func TestRetryReevaluatesTiming(t *testing.T) {
	t.Run("still unfavorable drops the suggestion", func(t *testing.T) {
		o, _, hl := newTestEngine(t, nil)
		floodErrors(o)

		s, _ := o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityHigh))
		if s.ShouldShowNow {
			t.Fatal("setup: suggestion not deferred")
		}
		if o.RetrySuggestion(s.ID) {
			t.Fatal("RetrySuggestion = true while timing is unfavorable")
		}
		st := o.GetQueueStatus()
		if st.Pending != 0 || st.Expired != 1 {
			t.Errorf("status = %+v, want the suggestion dropped", st)
		}
		if len(hl.shown) != 0 {
			t.Errorf("shown = %v, want none", hl.shown)
		}
		if len(hl.expired) != 1 || hl.expired[0] != s.ID {
			t.Errorf("expired = %v, want %s", hl.expired, s.ID)
		}
	})

	t.Run("favorable moment re-queues with backoff", func(t *testing.T) {
		o, sched, hl := newTestEngine(t, nil)
		floodErrors(o)

		s, _ := o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityHigh))
		if s.ShouldShowNow {
			t.Fatal("setup: suggestion not deferred")
		}

		// Six minutes later the error burst has left the rolling window.
		sched.Advance(6 * time.Minute)
		if !o.RetrySuggestion(s.ID) {
			t.Fatal("RetrySuggestion = false in a favorable moment")
		}
		sched.Advance(2 * time.Minute)
		if len(hl.shown) != 1 || hl.shown[0] != s.ID {
			t.Errorf("shown = %v, want %s", hl.shown, s.ID)
		}
	})

	t.Run("alternative time re-evaluates instead of showing", func(t *testing.T) {
		o, sched, hl := newTestEngine(t, func(cfg *config.NudgeConfig) {
			cfg.Engine.DefaultExpiration = 5 * time.Hour
		})
		floodErrors(o)

		s, _ := o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityHigh))
		alt := s.AlternativeTime
		if alt == nil {
			t.Fatal("setup: no alternative time")
		}

		// Keep the context unfavorable right up to the alternative time.
		sched.Advance(alt.Sub(engineStart) - time.Minute)
		floodErrors(o)
		sched.Advance(2 * time.Minute)

		if len(hl.shown) != 0 {
			t.Errorf("shown = %v, want none at an unfavorable alternative time", hl.shown)
		}
		if len(hl.expired) != 1 || hl.expired[0] != s.ID {
			t.Errorf("expired = %v, want %s", hl.expired, s.ID)
		}
		if st := o.GetQueueStatus(); st.Pending != 0 {
			t.Errorf("pending = %d, want 0", st.Pending)
		}
	})
}

func TestManualSuggestionBypassesSessionCap(t *testing.T) {
	o, sched, _ := newTestEngine(t, func(cfg *config.NudgeConfig) {
		cfg.Engine.MaxSuggestionsPerSession = 1
		cfg.Engine.SuggestionCooldown = 0
	})

	o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityMedium))
	sched.Advance(time.Minute)
	o.Accept("")

	s, reject := o.TriggerManualSuggestion("help-tour", "here is the tour you asked for")
	if reject != "" {
		t.Fatalf("manual suggestion rejected: %s", reject)
	}
	if s.Priority != models.PriorityCritical || s.TriggerSource != models.SourceManual {
		t.Errorf("manual suggestion = %+v", s)
	}
}

func TestEventRoutingFeedsAnalysis(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.AnalysisInterval = 0

	sched := schedule.NewManualScheduler(engineStart)
	src := host.NewDispatcher()
	o := New(cfg, Options{
		SessionID: "session-1",
		Source:    src,
		Scheduler: sched,
		NewID:     sequentialIDs(),
	})
	defer o.Destroy()

	src.Publish(host.Event{Kind: host.KindNavigation, Path: "/settings"})
	src.Publish(host.Event{Kind: host.KindError, ErrorType: "validation", ErrorContext: "/settings"})
	sched.Advance(10 * time.Second)
	src.Publish(host.Event{Kind: host.KindError, ErrorType: "validation", ErrorContext: "/settings"})

	// Two errors stay below the threshold, so nothing is analyzed yet.
	if st := o.GetQueueStatus(); st.Pending != 0 {
		t.Fatalf("pending after two errors = %d, want 0", st.Pending)
	}

	// The third error in the same context is high-signal: analysis runs
	// immediately, without waiting for the periodic tick.
	sched.Advance(10 * time.Second)
	src.Publish(host.Event{Kind: host.KindError, ErrorType: "validation", ErrorContext: "/settings"})

	pending := o.GetPendingSuggestions()
	if len(pending) != 1 {
		t.Fatalf("pending after third error = %d, want 1", len(pending))
	}
	s := pending[0]
	if s.TourID != "settings-walkthrough" {
		t.Errorf("tour = %q, want settings-walkthrough", s.TourID)
	}
	if s.Priority != models.PriorityHigh {
		t.Errorf("priority = %q, want high", s.Priority)
	}
	if pid := s.BehaviorData["pattern_id"]; pid != "repeated-error" {
		t.Errorf("pattern id = %v", pid)
	}
}

func TestDestroyCancelsEverything(t *testing.T) {
	o, sched, hl := newTestEngine(t, nil)

	o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityMedium))
	o.Destroy()
	o.Destroy() // idempotent

	sched.Advance(time.Hour)
	if len(hl.shown) != 0 {
		t.Errorf("shown after destroy = %v", hl.shown)
	}
	if _, reject := o.HandleBehaviorTrigger(trigger("tour-b", models.PriorityMedium)); reject != "destroyed" {
		t.Errorf("reject = %q, want destroyed", reject)
	}
	if o.ShowNextSuggestion() != nil {
		t.Error("ShowNextSuggestion after destroy returned a suggestion")
	}
}

func TestAnalyticsAggregates(t *testing.T) {
	o, sched, _ := newTestEngine(t, func(cfg *config.NudgeConfig) {
		cfg.Engine.SuggestionCooldown = 0
	})

	a, _ := o.HandleBehaviorTrigger(trigger("tour-a", models.PriorityMedium))
	sched.Advance(time.Minute)
	o.Accept(a.ID)

	b, _ := o.HandleBehaviorTrigger(trigger("tour-b", models.PriorityMedium))
	sched.Advance(time.Minute)
	o.Dismiss(b.ID, "busy")

	o.HandleBehaviorTrigger(trigger("tour-b", models.PriorityMedium))
	snap := o.GetAnalyticsData()
	if snap.Created != 3 || snap.Shown != 2 || snap.Accepted != 1 || snap.Dismissed != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.AcceptanceRate() != 0.5 {
		t.Errorf("acceptance rate = %v, want 0.5", snap.AcceptanceRate())
	}
	ps := snap.ByPattern["inactivity"]
	if ps.Triggered != 3 || ps.Accepted != 1 || ps.Dismissed != 1 {
		t.Errorf("pattern stats = %+v", ps)
	}
}
