package behavior

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/waltergaltieri/nudge/internal/config"
	"github.com/waltergaltieri/nudge/internal/logging"
	"github.com/waltergaltieri/nudge/internal/models"
)

// MatcherConfig carries everything a Matcher needs besides the tracker.
type MatcherConfig struct {
	Catalog  Catalog
	Behavior config.BehaviorConfig

	// MaxTriggersPerSession caps how many triggers the matcher emits per
	// session across all patterns. Zero means unlimited.
	MaxTriggersPerSession int

	// Decisions receives per-pattern evaluation traces. Nil disables
	// tracing.
	Decisions *logging.DecisionLogger

	// Rand selects suggestion messages. Nil means time-seeded.
	Rand *rand.Rand

	// Now is injectable for tests. Nil means time.Now.
	Now func() time.Time
}

// Matcher evaluates the pattern catalog against the tracker's behavior
// log. Analyze returns at most one trigger per pass: patterns are
// evaluated in catalog order and the first one clearing its confidence
// floor wins.
type Matcher struct {
	tracker   *Tracker
	catalog   Catalog
	behavior  config.BehaviorConfig
	maxPerSes int
	decisions *logging.DecisionLogger
	rand      *rand.Rand
	now       func() time.Time

	mu            sync.Mutex
	lastTrigger   time.Time
	totalTriggers int
	patternLast   map[string]time.Time
	patternCount  map[string]int
}

// NewMatcher creates a matcher reading from the given tracker.
func NewMatcher(tracker *Tracker, cfg MatcherConfig) *Matcher {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Matcher{
		tracker:      tracker,
		catalog:      cfg.Catalog,
		behavior:     cfg.Behavior,
		maxPerSes:    cfg.MaxTriggersPerSession,
		decisions:    cfg.Decisions,
		rand:         rng,
		now:          now,
		patternLast:  make(map[string]time.Time),
		patternCount: make(map[string]int),
	}
}

// evalContext is the read-only state one analysis pass evaluates against.
type evalContext struct {
	log          models.BehaviorLog
	pageLoadedAt time.Time
	now          time.Time
}

// Analyze runs one analysis pass. It returns nil when admission gates
// block triggering or no pattern qualifies.
func (m *Matcher) Analyze() *models.TriggerResult {
	now := m.now()
	ec := evalContext{
		log:          m.tracker.Snapshot(),
		pageLoadedAt: m.tracker.PageLoadedAt(),
		now:          now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.lastTrigger.IsZero() && now.Sub(m.lastTrigger) < m.behavior.MinTimeBetweenSuggestions {
		return nil
	}
	if m.maxPerSes > 0 && m.totalTriggers >= m.maxPerSes {
		return nil
	}

	for _, p := range m.catalog.Patterns {
		if last, ok := m.patternLast[p.ID]; ok && p.Cooldown > 0 && now.Sub(last) < p.Cooldown {
			continue
		}
		if p.MaxPerSession > 0 && m.patternCount[p.ID] >= p.MaxPerSession {
			continue
		}

		score, detail := m.scorePattern(p, ec)
		triggered := score >= p.Confidence
		m.decisions.Trigger(p.ID, score, triggered, detail)
		if !triggered {
			continue
		}

		m.lastTrigger = now
		m.totalTriggers++
		m.patternLast[p.ID] = now
		m.patternCount[p.ID]++

		page := ec.log.CurrentPage()
		return &models.TriggerResult{
			PatternID:  p.ID,
			TourID:     m.catalog.TourFor(p.ID, page),
			Reason:     p.Description,
			Confidence: math.Min(score, 1.0),
			Priority:   p.Priority,
			Message:    m.pickMessage(p.ID),
			Delay:      baseDelay(p.Priority),
			Metadata: map[string]interface{}{
				"page":       page,
				"conditions": detail,
			},
		}
	}

	return nil
}

// scorePattern computes the weighted condition score for one pattern,
// scaled by the configured sensitivity. The returned detail map holds the
// raw per-condition scores for tracing.
func (m *Matcher) scorePattern(p models.BehaviorPattern, ec evalContext) (float64, map[string]any) {
	var sum, weights float64
	detail := make(map[string]any, len(p.Conditions))
	for _, c := range p.Conditions {
		s := scoreCondition(c, ec)
		detail[string(c.Kind)] = s
		sum += s * c.Weight
		weights += c.Weight
	}
	if weights == 0 {
		return 0, detail
	}
	return sum / weights * m.behavior.SensitivityMultiplier(), detail
}

// scoreCondition evaluates one condition to a 0 or 1 score. Thresholds
// are durations in milliseconds for inactivity and time_threshold, counts
// for everything else. Unknown kinds score 0 so unrecognized catalog
// entries degrade gracefully instead of failing the pattern.
func scoreCondition(c models.BehaviorCondition, ec evalContext) float64 {
	threshold := thresholdDuration(c.Threshold)
	cutoff := ec.now.Add(-c.Window)

	switch c.Kind {
	case models.CondInactivity:
		if ec.now.Sub(ec.log.LastActivity) >= threshold {
			return 1
		}

	case models.CondErrorPattern:
		counts := make(map[string]int)
		for _, e := range ec.log.ErrorsSince(cutoff) {
			counts[e.Context]++
			if counts[e.Context] >= int(c.Threshold) {
				return 1
			}
		}

	case models.CondNavigationConfusion:
		if navChurn(ec.log) >= int(c.Threshold) {
			return 1
		}

	case models.CondFeatureStruggle:
		page := ec.log.CurrentPage()
		count := len(ec.log.AbandonedSince(cutoff))
		for _, e := range ec.log.ErrorsSince(cutoff) {
			if e.Context == page {
				count++
			}
		}
		if count >= int(c.Threshold) {
			return 1
		}

	case models.CondRepeatedAction:
		counts := make(map[string]int)
		for _, cl := range ec.log.ClicksSince(cutoff) {
			counts[cl.Element]++
			if counts[cl.Element] >= int(c.Threshold) {
				return 1
			}
		}

	case models.CondTimeThreshold:
		if ec.now.Sub(ec.pageLoadedAt) >= threshold {
			return 1
		}
	}

	return 0
}

// navChurn measures back-and-forth navigation: explicit back navigations
// plus A-B-A bounces in the navigation path. The path carries no
// timestamps, so churn is counted over the whole session.
func navChurn(log models.BehaviorLog) int {
	churn := log.BackNavigations
	for i := 2; i < len(log.NavigationPath); i++ {
		if log.NavigationPath[i] == log.NavigationPath[i-2] {
			churn++
		}
	}
	return churn
}

// thresholdDuration converts a millisecond threshold to a duration.
func thresholdDuration(ms float64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// pickMessage selects a suggestion message for the pattern, falling back
// to the empty string when the catalog carries none.
func (m *Matcher) pickMessage(patternID string) string {
	msgs := m.catalog.Messages[patternID]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[m.rand.Intn(len(msgs))]
}

// baseDelay is the matcher's suggested presentation delay per priority.
// The timing recommender refines it; this is only the default carried on
// the trigger.
func baseDelay(p models.Priority) time.Duration {
	switch p {
	case models.PriorityCritical:
		return 0
	case models.PriorityHigh:
		return 2 * time.Second
	case models.PriorityMedium:
		return 5 * time.Second
	default:
		return 10 * time.Second
	}
}
