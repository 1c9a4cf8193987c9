package timing

import (
	"fmt"
	"sync"
	"time"

	"github.com/waltergaltieri/nudge/internal/config"
	"github.com/waltergaltieri/nudge/internal/constants"
	"github.com/waltergaltieri/nudge/internal/logging"
	"github.com/waltergaltieri/nudge/internal/models"
)

// Delay multipliers. Busier users wait longer; calmer users can be shown
// sooner.
var activityDelayMultiplier = map[models.UserActivity]float64{
	models.ActivityIdle:       0.5,
	models.ActivityActive:     1.0,
	models.ActivityDistracted: 1.5,
	models.ActivityFocused:    2.0,
}

var loadDelayMultiplier = map[models.LoadLevel]float64{
	models.LevelLow:    0.8,
	models.LevelMedium: 1.0,
	models.LevelHigh:   2.5,
}

// Recommender keeps the rolling interaction log and the learned per-tour
// delay preferences, and turns both into timing recommendations. It is
// safe for concurrent use.
type Recommender struct {
	cfg       config.TimingConfig
	decisions *logging.DecisionLogger
	now       func() time.Time

	mu           sync.Mutex
	interactions []models.InteractionRecord
	prefs        map[string]float64
}

// NewRecommender creates a recommender. decisions may be nil; now is
// injectable for tests and nil means time.Now.
func NewRecommender(cfg config.TimingConfig, decisions *logging.DecisionLogger, now func() time.Time) *Recommender {
	if now == nil {
		now = time.Now
	}
	return &Recommender{
		cfg:       cfg,
		decisions: decisions,
		now:       now,
		prefs:     make(map[string]float64),
	}
}

// TrackInteraction appends one interaction to the rolling log. Type is one
// of the Interaction* labels; unknown labels are kept and only affect the
// frequency derivation.
func (r *Recommender) TrackInteraction(kind string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.interactions = append(r.interactions, models.InteractionRecord{
		Type: kind, Success: success, Timestamp: now,
	})
	r.pruneLocked(now)
}

// pruneLocked drops interactions older than the rolling window.
func (r *Recommender) pruneLocked(now time.Time) {
	cutoff := now.Add(-constants.InteractionWindow)
	i := 0
	for i < len(r.interactions) && r.interactions[i].Timestamp.Before(cutoff) {
		i++
	}
	r.interactions = r.interactions[i:]
}

// Context derives the current timing context. Exposed for introspection
// surfaces; AnalyzeOptimalTiming derives its own.
func (r *Recommender) Context(sessionStart, pageLoadedAt time.Time) models.TimingContext {
	now := r.now()

	r.mu.Lock()
	r.pruneLocked(now)
	recent := append([]models.InteractionRecord(nil), r.interactions...)
	r.mu.Unlock()

	return deriveContext(now, sessionStart, pageLoadedAt, recent)
}

// AnalyzeOptimalTiming evaluates whether the triggered suggestion should
// be shown now, and with what delay. It never rejects outright: a
// negative recommendation carries an alternative time to retry.
func (r *Recommender) AnalyzeOptimalTiming(trigger *models.TriggerResult, sessionStart, pageLoadedAt time.Time) models.TimingRecommendation {
	ctx := r.Context(sessionStart, pageLoadedAt)
	factors, confidence := evaluateRules(r.cfg, ctx)
	shouldShow := confidence >= constants.ShowConfidenceThreshold

	rec := models.TimingRecommendation{
		ShouldShow:   shouldShow,
		OptimalDelay: r.optimalDelay(trigger, ctx, confidence),
		Confidence:   confidence,
		Factors:      factors,
	}
	switch {
	case confidence >= constants.StrongConfidenceThreshold:
		rec.Reason = describeGoodFactor(strongestFactor(factors))
	case shouldShow:
		rec.Reason = fmt.Sprintf("adequate moment (confidence %.2f)", confidence)
	default:
		rec.Reason = describeFactor(weakestFactor(factors))
		alt := r.alternativeTime(ctx.Now)
		rec.AlternativeTime = &alt
	}

	r.decisions.Timing(trigger.TourID, shouldShow, confidence, factors)
	return rec
}

// optimalDelay derives the presentation delay: a priority base scaled by
// activity, load, confidence, and the learned per-tour preference,
// clamped to the configured bounds.
func (r *Recommender) optimalDelay(trigger *models.TriggerResult, ctx models.TimingContext, confidence float64) time.Duration {
	base := r.priorityBase(trigger.Priority)

	mult := activityDelayMultiplier[ctx.UserActivity]
	if mult == 0 {
		mult = 1.0
	}
	if lm := loadDelayMultiplier[ctx.CognitiveLoad]; lm != 0 {
		mult *= lm
	}
	mult *= 2.0 - confidence
	mult *= r.PreferenceFor(trigger.TourID)

	delay := time.Duration(float64(base) * mult)
	if delay < r.cfg.MinDelay {
		return r.cfg.MinDelay
	}
	if delay > r.cfg.MaxDelay {
		return r.cfg.MaxDelay
	}
	return delay
}

// priorityBase maps a priority to its base delay inside the configured
// delay range. Critical suggestions start at the minimum, low ones at the
// maximum.
func (r *Recommender) priorityBase(p models.Priority) time.Duration {
	span := r.cfg.MaxDelay - r.cfg.MinDelay
	switch p {
	case models.PriorityCritical:
		return r.cfg.MinDelay
	case models.PriorityHigh:
		return r.cfg.MinDelay + span/4
	case models.PriorityMedium:
		return r.cfg.MinDelay + span/2
	default:
		return r.cfg.MaxDelay
	}
}

// alternativeTime picks the retry moment for a deferred suggestion: the
// start of the next optimal window within the horizon, else the top of
// the next hour.
func (r *Recommender) alternativeTime(now time.Time) time.Time {
	horizon := now.Add(constants.AlternativeTimeHorizon)
	var best time.Time
	for _, w := range r.cfg.OptimalWindows {
		start := time.Date(now.Year(), now.Month(), now.Day(), w.StartHour, 0, 0, 0, now.Location())
		if !start.After(now) {
			start = start.Add(24 * time.Hour)
		}
		if start.After(horizon) {
			continue
		}
		if best.IsZero() || start.Before(best) {
			best = start
		}
	}
	if !best.IsZero() {
		return best
	}
	return now.Truncate(time.Hour).Add(time.Hour)
}
