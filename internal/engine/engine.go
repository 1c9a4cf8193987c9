// Package engine is the suggestion orchestrator: it owns the suggestion
// queue, coordinates the behavior matcher and the timing recommender, and
// drives the suggestion lifecycle from trigger to terminal state. Hosts
// feed it events, receive lifecycle hooks, and query its queue.
package engine

import (
	"log/slog"
	"math"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/waltergaltieri/nudge/internal/behavior"
	"github.com/waltergaltieri/nudge/internal/config"
	"github.com/waltergaltieri/nudge/internal/host"
	"github.com/waltergaltieri/nudge/internal/logging"
	"github.com/waltergaltieri/nudge/internal/models"
	"github.com/waltergaltieri/nudge/internal/schedule"
	"github.com/waltergaltieri/nudge/internal/timing"
	"github.com/waltergaltieri/nudge/internal/utils"
)

// Hooks are the host's lifecycle callbacks. All fields are optional; nil
// hooks are skipped. Hooks run outside the orchestrator's lock, on the
// goroutine that caused the transition.
type Hooks struct {
	OnCreated   func(models.ContextualSuggestion)
	OnShown     func(models.ContextualSuggestion)
	OnAccepted  func(models.ContextualSuggestion)
	OnDismissed func(models.ContextualSuggestion, string)
	OnExpired   func(models.ContextualSuggestion)
}

// Options configures a new Orchestrator beyond the config file. Zero
// values get sensible defaults.
type Options struct {
	SessionID string
	UserID    string

	// Source, when set, is subscribed for host events so the host does not
	// need to call the Track methods itself.
	Source host.Source

	// Scheduler defaults to a real-timer scheduler. Tests inject a
	// virtual-clock one.
	Scheduler schedule.Scheduler

	Logger    *slog.Logger
	Decisions *logging.DecisionLogger
	Hooks     Hooks

	// Sink receives analytics events. The orchestrator takes ownership and
	// closes it on Destroy.
	Sink Sink

	// Rand seeds message selection; nil means time-seeded.
	Rand *rand.Rand

	// NewID defaults to UUID generation.
	NewID func() string
}

// Orchestrator coordinates the three engines for one session.
type Orchestrator struct {
	cfg       config.EngineConfig
	errThresh int
	tracker   *behavior.Tracker
	matcher   *behavior.Matcher
	timing    *timing.Recommender
	sched     schedule.Scheduler
	ownsSched bool
	log       *slog.Logger
	decisions *logging.DecisionLogger
	hooks     Hooks
	analytics *recorder
	sink      Sink
	newID     func() string

	mu               sync.Mutex
	pending          pendingQueue
	active           *models.ContextualSuggestion
	dismissed        []models.ContextualSuggestion
	completed        []models.ContextualSuggestion
	expired          []models.ContextualSuggestion
	shownThisSession int
	lastShownAt      time.Time
	pageContext      string
	timers           map[string]schedule.CancelFunc
	periodic         schedule.CancelFunc
	unsubscribe      []func()
	destroyed        bool
}

// New creates an orchestrator and starts its periodic analysis driver.
// Callers must Destroy it when the session ends.
func New(cfg *config.NudgeConfig, opts Options) *Orchestrator {
	sched := opts.Scheduler
	ownsSched := false
	if sched == nil {
		sched = schedule.NewTimerScheduler()
		ownsSched = true
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger(cfg.Logging.Level, os.Stderr)
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	tracker := behavior.NewTracker(opts.SessionID, opts.UserID, nil, sched.Now)
	o := &Orchestrator{
		cfg:       cfg.Engine,
		errThresh: cfg.Behavior.ErrorThreshold,
		tracker:   tracker,
		matcher: behavior.NewMatcher(tracker, behavior.MatcherConfig{
			Catalog:               behavior.DefaultCatalog(cfg.Behavior),
			Behavior:              cfg.Behavior,
			MaxTriggersPerSession: cfg.Engine.MaxSuggestionsPerSession,
			Decisions:             opts.Decisions,
			Rand:                  opts.Rand,
			Now:                   sched.Now,
		}),
		timing:    timing.NewRecommender(cfg.Timing, opts.Decisions, sched.Now),
		sched:     sched,
		ownsSched: ownsSched,
		log:       logger,
		decisions: opts.Decisions,
		hooks:     opts.Hooks,
		sink:      opts.Sink,
		newID:     newID,
		timers:    make(map[string]schedule.CancelFunc),
	}
	o.analytics = newRecorder(cfg.Engine.AnalyticsEnabled, opts.Sink, func(err error) {
		logger.Warn("analytics sink write failed", "error", err)
	})

	if opts.Source != nil {
		for _, kind := range []host.EventKind{host.KindInteraction, host.KindScroll, host.KindNavigation, host.KindError} {
			o.unsubscribe = append(o.unsubscribe, opts.Source.Subscribe(kind, o.TrackEvent))
		}
	}

	if cfg.Engine.AnalysisInterval > 0 {
		o.periodic = sched.Every(cfg.Engine.AnalysisInterval, o.analysisTick)
	}

	return o
}

// TrackEvent routes one host event to the behavior tracker and the timing
// recommender. Navigation events also update the page context.
func (o *Orchestrator) TrackEvent(e host.Event) {
	switch e.Kind {
	case host.KindInteraction:
		o.tracker.TrackClick(e.Element, e.Success)
		o.timing.TrackInteraction(timing.InteractionClick, e.Success)
	case host.KindScroll:
		o.tracker.TrackScroll()
		o.timing.TrackInteraction(timing.InteractionScroll, true)
	case host.KindNavigation:
		o.tracker.TrackNavigation(e.Path, e.Back)
		o.timing.TrackInteraction(timing.InteractionNavigation, true)
		o.UpdatePageContext(e.Path)
	case host.KindError:
		o.tracker.TrackError(e.ErrorType, e.ErrorContext)
		o.timing.TrackInteraction(timing.InteractionError, false)
		// Errors are high-signal: once a context accumulates enough of
		// them, analyze immediately instead of waiting for the next tick.
		if o.tracker.ErrorCountInContext(e.ErrorContext, behavior.ErrorWindow) >= o.errThresh {
			o.AnalyzeNow()
		}
	}
}

// TrackFeatureUsage records one use of a named feature.
func (o *Orchestrator) TrackFeatureUsage(name string) {
	o.tracker.TrackFeatureUsage(name)
}

// TrackAbandonedAction records a multi-step action abandoned at step.
func (o *Orchestrator) TrackAbandonedAction(action, step string) {
	o.tracker.TrackAbandonedAction(action, step)
}

// TrackHelpRequest records an explicit help request.
func (o *Orchestrator) TrackHelpRequest(context string) {
	o.tracker.TrackHelpRequest(context)
}

// analysisTick is the periodic driver: expire stale suggestions, then run
// one pattern analysis pass.
func (o *Orchestrator) analysisTick() {
	o.ClearExpiredSuggestions()
	o.AnalyzeNow()
}

// AnalyzeNow runs one behavior analysis pass immediately and handles the
// trigger if one fires. It returns the created suggestion, or nil when no
// pattern qualified or admission rejected the candidate.
func (o *Orchestrator) AnalyzeNow() *models.ContextualSuggestion {
	trigger := o.matcher.Analyze()
	if trigger == nil {
		return nil
	}
	s, _ := o.HandleBehaviorTrigger(trigger)
	return s
}

// HandleBehaviorTrigger materializes a trigger into a queued suggestion.
// It returns the suggestion copy and "" on admission, or nil and the
// rejecting filter's name.
func (o *Orchestrator) HandleBehaviorTrigger(trigger *models.TriggerResult) (*models.ContextualSuggestion, string) {
	return o.enqueue(trigger, models.SourceBehavior)
}

// TriggerManualSuggestion queues a tour the host asked for explicitly.
// Manual suggestions carry critical priority and skip the session cap and
// cooldown, but still respect queue capacity and the duplicate filter.
func (o *Orchestrator) TriggerManualSuggestion(tourID, message string) (*models.ContextualSuggestion, string) {
	return o.enqueue(&models.TriggerResult{
		PatternID:  "manual",
		TourID:     tourID,
		Reason:     "requested by the host",
		Confidence: 1.0,
		Priority:   models.PriorityCritical,
		Message:    message,
	}, models.SourceManual)
}

func (o *Orchestrator) enqueue(trigger *models.TriggerResult, source models.TriggerSource) (*models.ContextualSuggestion, string) {
	rec := o.timing.AnalyzeOptimalTiming(trigger, o.tracker.SessionStart(), o.tracker.PageLoadedAt())
	now := o.sched.Now()

	behaviorData := map[string]interface{}{"pattern_id": trigger.PatternID}
	for k, v := range trigger.Metadata {
		behaviorData[k] = v
	}

	s := &models.ContextualSuggestion{
		ID:              o.newID(),
		TourID:          trigger.TourID,
		Reason:          trigger.Reason,
		Message:         trigger.Message,
		Confidence:      trigger.Confidence,
		Priority:        trigger.Priority,
		TriggerSource:   source,
		OptimalDelay:    rec.OptimalDelay,
		ShouldShowNow:   rec.ShouldShow,
		AlternativeTime: rec.AlternativeTime,
		PageContext:     o.tracker.CurrentPage(),
		State:           models.StatePending,
		CreatedAt:       now,
		ExpiresAt:       now.Add(o.cfg.DefaultExpiration),
		MaxRetries:      o.cfg.MaxRetries,
		BehaviorData:    behaviorData,
		TimingFactors:   rec.Factors,
	}

	o.mu.Lock()
	if o.destroyed {
		o.mu.Unlock()
		return nil, "destroyed"
	}
	if reject := o.admit(s, now); reject != "" {
		o.mu.Unlock()
		o.decisions.Lifecycle(s.ID, "rejected", reject)
		o.analytics.record(o.event(s, EventRejected, reject, now))
		o.log.Debug("suggestion rejected", "tour", s.TourID, "filter", reject)
		return nil, reject
	}

	o.pending.insert(s)
	delay := rec.OptimalDelay
	if !rec.ShouldShow && rec.AlternativeTime != nil {
		delay = rec.AlternativeTime.Sub(now)
	}
	o.scheduleShowLocked(s, delay)
	cp := *s
	o.mu.Unlock()

	o.decisions.Lifecycle(s.ID, "created", trigger.Reason)
	o.analytics.record(o.event(&cp, EventCreated, trigger.Reason, now))
	o.log.Info("suggestion queued", "id", cp.ID, "tour", cp.TourID, "priority", cp.Priority, "delay", delay)
	o.callHook1(o.hooks.OnCreated, cp)
	return &cp, ""
}

// scheduleShowLocked arms the show timer for a pending suggestion.
func (o *Orchestrator) scheduleShowLocked(s *models.ContextualSuggestion, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	id := s.ID
	o.timers[id] = o.sched.Schedule(delay, func() { o.onShowTimer(id) })
}

// onShowTimer fires when a pending suggestion's delay elapses. If the
// moment is still blocked it retries with backoff instead of dropping the
// suggestion.
func (o *Orchestrator) onShowTimer(id string) {
	o.mu.Lock()
	delete(o.timers, id)
	if o.destroyed {
		o.mu.Unlock()
		return
	}
	s := o.pending.byID(id)
	if s == nil {
		o.mu.Unlock()
		return
	}

	now := o.sched.Now()
	if s.Expired(now) {
		o.expireLocked(s, "expired before showing", now)
		return
	}
	if o.active != nil || o.showBlocked(now) {
		o.retryLocked(s, now)
		return
	}
	if !s.ShouldShowNow {
		// The alternative time arrived for a deferred suggestion. That is
		// a retry, not a show: the moment has to be re-evaluated first.
		o.retryLocked(s, now)
		return
	}
	o.showLocked(s, now)
}

// showBlocked reports whether the session cap or cooldown forbids showing
// right now. Callers hold o.mu.
func (o *Orchestrator) showBlocked(now time.Time) bool {
	if o.cfg.MaxSuggestionsPerSession > 0 && o.shownThisSession >= o.cfg.MaxSuggestionsPerSession {
		return true
	}
	return !o.lastShownAt.IsZero() && now.Sub(o.lastShownAt) < o.cfg.SuggestionCooldown
}

// showLocked promotes a pending suggestion to active and returns a copy.
// It unlocks o.mu.
func (o *Orchestrator) showLocked(s *models.ContextualSuggestion, now time.Time) models.ContextualSuggestion {
	o.pending.remove(s.ID)
	o.cancelTimerLocked(s.ID)
	s.State = models.StateActive
	shownAt := now
	s.ShownAt = &shownAt
	o.active = s
	o.shownThisSession++
	o.lastShownAt = now
	cp := *s
	o.mu.Unlock()

	o.decisions.Lifecycle(cp.ID, "shown", "")
	o.analytics.record(o.event(&cp, EventShown, "", now))
	o.log.Info("suggestion shown", "id", cp.ID, "tour", cp.TourID)
	o.callHook1(o.hooks.OnShown, cp)
	return cp
}

// retryLocked re-runs the timing recommender for a pending suggestion and
// reschedules it with exponential backoff applied to the fresh delay. The
// suggestion expires when retries are exhausted or when the recomputed
// recommendation says the moment is still wrong. It reports whether the
// suggestion was re-queued and unlocks o.mu.
func (o *Orchestrator) retryLocked(s *models.ContextualSuggestion, now time.Time) bool {
	if s.CurrentRetries >= s.MaxRetries {
		o.expireLocked(s, "retries exhausted", now)
		return false
	}

	// The recommender and tracker have their own locks and never call
	// back into the orchestrator, so holding o.mu here is fine.
	rec := o.timing.AnalyzeOptimalTiming(&models.TriggerResult{
		PatternID:  utils.GetString(s.BehaviorData, "pattern_id", ""),
		TourID:     s.TourID,
		Reason:     s.Reason,
		Confidence: s.Confidence,
		Priority:   s.Priority,
	}, o.tracker.SessionStart(), o.tracker.PageLoadedAt())
	if !rec.ShouldShow {
		o.expireLocked(s, "timing still unfavorable on retry", now)
		return false
	}

	s.CurrentRetries++
	s.ShouldShowNow = true
	s.AlternativeTime = nil
	s.OptimalDelay = rec.OptimalDelay
	s.TimingFactors = rec.Factors
	delay := time.Duration(float64(rec.OptimalDelay) * math.Pow(o.cfg.RetryDelayMultiplier, float64(s.CurrentRetries)))
	o.scheduleShowLocked(s, delay)
	id := s.ID
	retries := s.CurrentRetries
	o.mu.Unlock()

	o.decisions.Lifecycle(id, "retry", "")
	o.log.Debug("suggestion retry scheduled", "id", id, "attempt", retries, "delay", delay)
	return true
}

// expireLocked moves a suggestion to the expired bucket. It unlocks o.mu.
func (o *Orchestrator) expireLocked(s *models.ContextualSuggestion, reason string, now time.Time) {
	o.pending.remove(s.ID)
	o.cancelTimerLocked(s.ID)
	if o.active != nil && o.active.ID == s.ID {
		o.active = nil
	}
	s.State = models.StateExpired
	o.expired = append(o.expired, *s)
	cp := *s
	o.mu.Unlock()

	o.decisions.Lifecycle(cp.ID, "expired", reason)
	o.analytics.record(o.event(&cp, EventExpired, reason, now))
	o.log.Debug("suggestion expired", "id", cp.ID, "reason", reason)
	o.callHook1(o.hooks.OnExpired, cp)
}

// ShowNextSuggestion promotes the first eligible pending suggestion to
// active and returns a copy. Eligible means unexpired and either ready to
// show now or already retried at least once. It returns the
// already-active suggestion when one is showing, and nil when nothing is
// eligible or showing is currently blocked.
func (o *Orchestrator) ShowNextSuggestion() *models.ContextualSuggestion {
	o.mu.Lock()
	if o.destroyed {
		o.mu.Unlock()
		return nil
	}
	if o.active != nil {
		cp := *o.active
		o.mu.Unlock()
		return &cp
	}

	now := o.sched.Now()
	if o.showBlocked(now) {
		o.mu.Unlock()
		return nil
	}
	for {
		var stale *models.ContextualSuggestion
		for _, s := range o.pending.items {
			if s.Expired(now) {
				stale = s
				break
			}
		}
		if stale == nil {
			break
		}
		o.expireLocked(stale, "expired in queue", now)
		o.mu.Lock()
		if o.destroyed {
			o.mu.Unlock()
			return nil
		}
	}
	// Deferred suggestions that were never retried keep waiting for their
	// alternative time; everything else is eligible in queue order.
	for _, s := range o.pending.items {
		if !s.ShouldShowNow && s.CurrentRetries == 0 {
			continue
		}
		cp := o.showLocked(s, now)
		return &cp
	}
	o.mu.Unlock()
	return nil
}

// Accept marks a suggestion completed. An empty id means the active
// suggestion. It returns false for unknown ids and suggestions already in
// a terminal state.
func (o *Orchestrator) Accept(id string) bool {
	return o.finish(id, true, "")
}

// Dismiss marks a suggestion dismissed with an optional reason. An empty
// id means the active suggestion.
func (o *Orchestrator) Dismiss(id, reason string) bool {
	return o.finish(id, false, reason)
}

func (o *Orchestrator) finish(id string, accepted bool, reason string) bool {
	o.mu.Lock()
	s := o.resolveLocked(id)
	if s == nil {
		o.mu.Unlock()
		return false
	}

	o.pending.remove(s.ID)
	o.cancelTimerLocked(s.ID)
	if o.active != nil && o.active.ID == s.ID {
		o.active = nil
	}
	now := o.sched.Now()
	if accepted {
		s.State = models.StateCompleted
		o.completed = append(o.completed, *s)
	} else {
		s.State = models.StateDismissed
		o.dismissed = append(o.dismissed, *s)
	}
	cp := *s
	o.mu.Unlock()

	o.timing.RecordFeedback(cp.TourID, accepted)
	if accepted {
		o.decisions.Lifecycle(cp.ID, "accepted", "")
		o.analytics.record(o.event(&cp, EventAccepted, "", now))
		o.log.Info("suggestion accepted", "id", cp.ID, "tour", cp.TourID)
		o.callHook1(o.hooks.OnAccepted, cp)
	} else {
		o.decisions.Lifecycle(cp.ID, "dismissed", reason)
		o.analytics.record(o.event(&cp, EventDismissed, reason, now))
		o.log.Info("suggestion dismissed", "id", cp.ID, "tour", cp.TourID, "reason", reason)
		o.callHook2(o.hooks.OnDismissed, cp, reason)
	}
	return true
}

// resolveLocked finds the non-terminal suggestion for id, or the active
// one when id is empty.
func (o *Orchestrator) resolveLocked(id string) *models.ContextualSuggestion {
	if id == "" {
		return o.active
	}
	if o.active != nil && o.active.ID == id {
		return o.active
	}
	return o.pending.byID(id)
}

// RetrySuggestion re-evaluates the timing for a pending suggestion by id
// and reschedules it with the usual backoff when the moment is favorable.
// It returns false when the id is not pending, retries are exhausted, or
// the fresh recommendation says not to show.
func (o *Orchestrator) RetrySuggestion(id string) bool {
	o.mu.Lock()
	if o.destroyed {
		o.mu.Unlock()
		return false
	}
	s := o.pending.byID(id)
	if s == nil {
		o.mu.Unlock()
		return false
	}
	now := o.sched.Now()
	o.cancelTimerLocked(s.ID)
	return o.retryLocked(s, now)
}

// ClearExpiredSuggestions sweeps the queue and the active slot for
// suggestions past their deadline. It returns how many were expired.
func (o *Orchestrator) ClearExpiredSuggestions() int {
	count := 0
	for {
		o.mu.Lock()
		if o.destroyed {
			o.mu.Unlock()
			return count
		}
		now := o.sched.Now()
		var victim *models.ContextualSuggestion
		for _, s := range o.pending.items {
			if s.Expired(now) {
				victim = s
				break
			}
		}
		if victim == nil && o.active != nil && o.active.Expired(now) {
			victim = o.active
		}
		if victim == nil {
			o.mu.Unlock()
			return count
		}
		o.expireLocked(victim, "deadline passed", now)
		count++
	}
}

// UpdatePageContext records a page change. Repeated calls with the same
// page are no-ops. With the context filter enabled, pending suggestions
// tied to another page expire immediately rather than being dismissed, so
// they do not count against the user's preference learning.
func (o *Orchestrator) UpdatePageContext(page string) {
	o.mu.Lock()
	if o.destroyed || page == o.pageContext {
		o.mu.Unlock()
		return
	}
	o.pageContext = page

	if !o.cfg.ContextFilter {
		o.mu.Unlock()
		return
	}
	now := o.sched.Now()
	removed := o.pending.filter(func(s *models.ContextualSuggestion) bool {
		return s.PageContext == "" || s.PageContext == page
	})
	expired := make([]models.ContextualSuggestion, 0, len(removed))
	for _, s := range removed {
		o.cancelTimerLocked(s.ID)
		s.State = models.StateExpired
		o.expired = append(o.expired, *s)
		expired = append(expired, *s)
	}
	o.mu.Unlock()

	const reason = "page context changed"
	for _, cp := range expired {
		o.decisions.Lifecycle(cp.ID, "expired", reason)
		o.analytics.record(o.event(&cp, EventExpired, reason, now))
		o.log.Debug("suggestion expired", "id", cp.ID, "reason", reason)
		o.callHook1(o.hooks.OnExpired, cp)
	}
}

// GetQueueStatus returns a point-in-time summary of the queue.
func (o *Orchestrator) GetQueueStatus() models.QueueStatus {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := models.QueueStatus{
		Pending:          o.pending.len(),
		Dismissed:        len(o.dismissed),
		Completed:        len(o.completed),
		Expired:          len(o.expired),
		ShownThisSession: o.shownThisSession,
		PageContext:      o.pageContext,
	}
	if o.active != nil {
		st.ActiveID = o.active.ID
	}
	return st
}

// GetActiveSuggestion returns a copy of the active suggestion, or nil.
func (o *Orchestrator) GetActiveSuggestion() *models.ContextualSuggestion {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil {
		return nil
	}
	cp := *o.active
	return &cp
}

// GetPendingSuggestions returns copies of the queued suggestions in queue
// order.
func (o *Orchestrator) GetPendingSuggestions() []models.ContextualSuggestion {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending.snapshot()
}

// GetAnalyticsData returns the in-memory analytics aggregate.
func (o *Orchestrator) GetAnalyticsData() AnalyticsSnapshot {
	return o.analytics.snapshot()
}

// Tracker exposes the behavior tracker for introspection surfaces.
func (o *Orchestrator) Tracker() *behavior.Tracker { return o.tracker }

// Timing exposes the timing recommender for introspection surfaces.
func (o *Orchestrator) Timing() *timing.Recommender { return o.timing }

// Destroy stops the periodic driver, cancels all outstanding timers,
// unsubscribes host listeners, and closes the analytics sink. The
// orchestrator rejects all work afterwards. Destroy is idempotent.
func (o *Orchestrator) Destroy() {
	o.mu.Lock()
	if o.destroyed {
		o.mu.Unlock()
		return
	}
	o.destroyed = true
	timers := o.timers
	o.timers = make(map[string]schedule.CancelFunc)
	periodic := o.periodic
	o.periodic = nil
	unsubscribe := o.unsubscribe
	o.unsubscribe = nil
	o.mu.Unlock()

	if periodic != nil {
		periodic()
	}
	for _, cancel := range timers {
		cancel()
	}
	for _, u := range unsubscribe {
		u()
	}
	o.tracker.Destroy()
	if o.ownsSched {
		if ts, ok := o.sched.(*schedule.TimerScheduler); ok {
			ts.StopAll()
		}
	}
	if o.sink != nil {
		if err := o.sink.Close(); err != nil {
			o.log.Warn("closing analytics sink", "error", err)
		}
	}
	o.log.Debug("orchestrator destroyed")
}

func (o *Orchestrator) cancelTimerLocked(id string) {
	if cancel, ok := o.timers[id]; ok {
		cancel()
		delete(o.timers, id)
	}
}

func (o *Orchestrator) event(s *models.ContextualSuggestion, kind EventKind, reason string, at time.Time) Event {
	return Event{
		SuggestionID: s.ID,
		TourID:       s.TourID,
		PatternID:    utils.GetString(s.BehaviorData, "pattern_id", ""),
		Kind:         kind,
		Reason:       reason,
		Confidence:   s.Confidence,
		Priority:     s.Priority,
		PageContext:  s.PageContext,
		At:           at,
	}
}

func (o *Orchestrator) callHook1(h func(models.ContextualSuggestion), s models.ContextualSuggestion) {
	if h != nil {
		h(s)
	}
}

func (o *Orchestrator) callHook2(h func(models.ContextualSuggestion, string), s models.ContextualSuggestion, reason string) {
	if h != nil {
		h(s, reason)
	}
}
