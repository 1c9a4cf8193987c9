// Package behavior converts raw interaction telemetry into scored pattern
// matches. The Tracker accumulates host events into a session behavior
// log; the Matcher evaluates a fixed pattern catalog against it and emits
// at most one trigger per analysis pass.
package behavior

import (
	"sync"
	"time"

	"github.com/waltergaltieri/nudge/internal/host"
	"github.com/waltergaltieri/nudge/internal/models"
)

// Tracker owns the session behavior log. All tracking methods are
// fire-and-forget appends plus a LastActivity touch; none of them can
// fail. It is safe for concurrent use.
type Tracker struct {
	mu           sync.Mutex
	log          *models.BehaviorLog
	pageLoadedAt time.Time
	now          func() time.Time
	unsubs       []func()
}

// NewTracker creates a tracker for one session and subscribes it to the
// host event source. src may be nil for hosts that call the tracking
// methods directly. The now func is injectable for tests.
func NewTracker(sessionID, userID string, src host.Source, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}

	t := &Tracker{
		log:          models.NewBehaviorLog(sessionID, userID, now()),
		pageLoadedAt: now(),
		now:          now,
	}

	if src != nil {
		t.subscribe(src)
	}

	return t
}

// subscribe wires the four host notification kinds into the tracking
// calls, collecting unsubscribe closures for Destroy.
func (t *Tracker) subscribe(src host.Source) {
	t.unsubs = append(t.unsubs,
		src.Subscribe(host.KindInteraction, func(e host.Event) {
			t.TrackClick(e.Element, e.Success)
		}),
		src.Subscribe(host.KindScroll, func(e host.Event) {
			t.TrackScroll()
		}),
		src.Subscribe(host.KindNavigation, func(e host.Event) {
			t.TrackNavigation(e.Path, e.Back)
		}),
		src.Subscribe(host.KindError, func(e host.Event) {
			t.TrackError(e.ErrorType, e.ErrorContext)
		}),
	)
}

// TrackActivity records bare user activity, updating LastActivity only.
func (t *Tracker) TrackActivity() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.log.LastActivity = t.now()
}

// TrackClick records an interaction with an element. Success reflects the
// host's heuristic: a click is successful when the target carries no error
// markers afterward.
func (t *Tracker) TrackClick(element string, success bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.log.Clicks = append(t.log.Clicks, models.ClickEvent{Element: element, Timestamp: now, Success: success})
	t.log.LastActivity = now
}

// TrackScroll records a scroll notification.
func (t *Tracker) TrackScroll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.log.Scrolls = append(t.log.Scrolls, models.ScrollEvent{Timestamp: now})
	t.log.LastActivity = now
}

// TrackError records an error with its type and context (usually the page
// where it occurred).
func (t *Tracker) TrackError(errType, context string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.log.Errors = append(t.log.Errors, models.ErrorEvent{Type: errType, Context: context, Timestamp: now})
	t.log.LastActivity = now
}

// TrackFormField records an interaction with a form field.
func (t *Tracker) TrackFormField(form, field string, errorCount int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.log.FormFields = append(t.log.FormFields, models.FormFieldEvent{
		Form: form, Field: field, ErrorCount: errorCount, Timestamp: now,
	})
	t.log.LastActivity = now
}

// TrackFeatureUsage records one use of a named feature.
func (t *Tracker) TrackFeatureUsage(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	u, ok := t.log.FeatureUsage[name]
	if !ok {
		u = models.FeatureUsage{FirstUse: now}
	}
	u.LastUse = now
	u.Count++
	t.log.FeatureUsage[name] = u
	t.log.LastActivity = now
}

// TrackAbandonedAction records a multi-step action abandoned at step.
func (t *Tracker) TrackAbandonedAction(action, step string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.log.AbandonedActions = append(t.log.AbandonedActions, models.AbandonedAction{
		Action: action, Step: step, Timestamp: now,
	})
	t.log.LastActivity = now
}

// TrackHelpRequest records an explicit help request.
func (t *Tracker) TrackHelpRequest(context string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.log.HelpRequests = append(t.log.HelpRequests, models.HelpRequest{Context: context, Timestamp: now})
	t.log.LastActivity = now
}

// TrackNavigation appends a page to the navigation path and refreshes the
// page-load timestamp. No-op path changes (same page again) are ignored
// except for the back counter.
func (t *Tracker) TrackNavigation(path string, back bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if back {
		t.log.BackNavigations++
	}
	if t.log.CurrentPage() != path {
		t.log.NavigationPath = append(t.log.NavigationPath, path)
		t.pageLoadedAt = now
	}
	t.log.LastActivity = now
}

// CurrentPage returns the page the user is on, or "".
func (t *Tracker) CurrentPage() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.log.CurrentPage()
}

// PageLoadedAt returns when the current page was entered.
func (t *Tracker) PageLoadedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pageLoadedAt
}

// SessionStart returns the session start time.
func (t *Tracker) SessionStart() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.log.StartTime
}

// Snapshot returns a copy of the behavior log safe to read without
// holding the tracker's lock. Slices are copied; analysis windows them
// by time so copy size stays proportional to session activity.
func (t *Tracker) Snapshot() models.BehaviorLog {
	t.mu.Lock()
	defer t.mu.Unlock()

	cp := *t.log
	cp.Clicks = append([]models.ClickEvent(nil), t.log.Clicks...)
	cp.Scrolls = append([]models.ScrollEvent(nil), t.log.Scrolls...)
	cp.FormFields = append([]models.FormFieldEvent(nil), t.log.FormFields...)
	cp.Errors = append([]models.ErrorEvent(nil), t.log.Errors...)
	cp.HelpRequests = append([]models.HelpRequest(nil), t.log.HelpRequests...)
	cp.NavigationPath = append([]string(nil), t.log.NavigationPath...)
	cp.AbandonedActions = append([]models.AbandonedAction(nil), t.log.AbandonedActions...)
	cp.FeatureUsage = make(map[string]models.FeatureUsage, len(t.log.FeatureUsage))
	for k, v := range t.log.FeatureUsage {
		cp.FeatureUsage[k] = v
	}
	return cp
}

// ErrorCountInContext returns how many errors share the given context
// within the window ending now.
func (t *Tracker) ErrorCountInContext(context string, window time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-window)
	count := 0
	for _, e := range t.log.Errors {
		if e.Context == context && !e.Timestamp.Before(cutoff) {
			count++
		}
	}
	return count
}

// Destroy unsubscribes all host-environment listeners. Mandatory before
// discarding a tracker so listeners never leak across engine instances.
func (t *Tracker) Destroy() {
	t.mu.Lock()
	unsubs := t.unsubs
	t.unsubs = nil
	t.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}
