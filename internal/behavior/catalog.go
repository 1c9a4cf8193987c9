package behavior

import (
	"time"

	"github.com/waltergaltieri/nudge/internal/config"
	"github.com/waltergaltieri/nudge/internal/models"
)

// Catalog bundles the pattern list with the tour lookup table and the
// per-pattern message sets. It is built once at engine construction and
// never mutated afterward.
type Catalog struct {
	// Patterns in evaluation order. The matcher returns the first pattern
	// whose score clears its confidence floor, so order encodes priority
	// among simultaneously qualifying patterns.
	Patterns []models.BehaviorPattern

	// Tours maps pattern ID to a page → tour table. The "default" page key
	// is the fallback when the current page has no dedicated tour.
	Tours map[string]map[string]string

	// Messages holds the candidate suggestion messages per pattern ID.
	Messages map[string][]string
}

// Pattern IDs of the built-in catalog, in evaluation order.
const (
	PatternRepeatedError       = "repeated-error"
	PatternFeatureStruggle     = "feature-struggle"
	PatternNavigationConfusion = "navigation-confusion"
	PatternRepeatedAction      = "repeated-action"
	PatternInactivity          = "inactivity"
)

// DefaultPageKey is the fallback key in a pattern's tour table.
const DefaultPageKey = "default"

// DefaultTour is returned when a pattern has no tour table at all.
const DefaultTour = "getting-started"

// ErrorWindow is the rolling window the repeated-error pattern counts
// errors over. The orchestrator uses the same window when deciding
// whether an error event is high-signal enough to analyze immediately.
const ErrorWindow = 5 * time.Minute

// DefaultCatalog builds the built-in pattern catalog. The inactivity and
// error thresholds come from config; everything else is fixed.
func DefaultCatalog(cfg config.BehaviorConfig) Catalog {
	return Catalog{
		Patterns: []models.BehaviorPattern{
			{
				ID:          PatternRepeatedError,
				Description: "User hit the same error repeatedly",
				Conditions: []models.BehaviorCondition{
					{Kind: models.CondErrorPattern, Threshold: float64(cfg.ErrorThreshold), Window: ErrorWindow, Weight: 1.0},
				},
				Confidence:    0.9,
				Priority:      models.PriorityHigh,
				Cooldown:      5 * time.Minute,
				MaxPerSession: 2,
			},
			{
				ID:          PatternFeatureStruggle,
				Description: "User is struggling with the current feature",
				Conditions: []models.BehaviorCondition{
					{Kind: models.CondFeatureStruggle, Threshold: 2, Window: 3 * time.Minute, Weight: 0.7},
					{Kind: models.CondTimeThreshold, Threshold: 20000, Weight: 0.3},
				},
				Confidence:    0.65,
				Priority:      models.PriorityHigh,
				Cooldown:      5 * time.Minute,
				MaxPerSession: 2,
			},
			{
				ID:          PatternNavigationConfusion,
				Description: "User is navigating back and forth without settling",
				Conditions: []models.BehaviorCondition{
					{Kind: models.CondNavigationConfusion, Threshold: 3, Window: 2 * time.Minute, Weight: 1.0},
				},
				Confidence:    0.7,
				Priority:      models.PriorityMedium,
				Cooldown:      10 * time.Minute,
				MaxPerSession: 1,
			},
			{
				ID:          PatternRepeatedAction,
				Description: "User repeated the same action without success",
				Conditions: []models.BehaviorCondition{
					{Kind: models.CondRepeatedAction, Threshold: 4, Window: time.Minute, Weight: 1.0},
				},
				Confidence:    0.75,
				Priority:      models.PriorityMedium,
				Cooldown:      5 * time.Minute,
				MaxPerSession: 2,
			},
			{
				ID:          PatternInactivity,
				Description: "User has been inactive for an extended period",
				Conditions: []models.BehaviorCondition{
					{Kind: models.CondInactivity, Threshold: float64(cfg.InactivityThreshold.Milliseconds()), Weight: 1.0},
				},
				Confidence:    0.6,
				Priority:      models.PriorityMedium,
				Cooldown:      10 * time.Minute,
				MaxPerSession: 1,
			},
		},
		Tours: map[string]map[string]string{
			PatternRepeatedError: {
				"/settings":    "settings-walkthrough",
				"/dashboard":   "dashboard-basics",
				DefaultPageKey: "troubleshooting-basics",
			},
			PatternFeatureStruggle: {
				"/editor":      "editor-deep-dive",
				"/dashboard":   "dashboard-basics",
				DefaultPageKey: "feature-overview",
			},
			PatternNavigationConfusion: {
				DefaultPageKey: "navigation-tour",
			},
			PatternRepeatedAction: {
				DefaultPageKey: "interaction-tips",
			},
			PatternInactivity: {
				"/dashboard":   "dashboard-basics",
				DefaultPageKey: DefaultTour,
			},
		},
		Messages: map[string][]string{
			PatternRepeatedError: {
				"Running into trouble? A quick walkthrough might help.",
				"That error keeps coming back. Want to see how to fix it?",
				"Need a hand with this? We can walk you through it.",
			},
			PatternFeatureStruggle: {
				"This feature has a few hidden tricks. Want a quick tour?",
				"Looks like this part is tricky. A short guide can help.",
				"Want to see the fastest way to get this done?",
			},
			PatternNavigationConfusion: {
				"Looking for something? A quick tour can show you around.",
				"Hard to find what you need? Let us point the way.",
				"A short orientation might save you some clicks.",
			},
			PatternRepeatedAction: {
				"That doesn't seem to be working. Want to see another way?",
				"There might be an easier way to do that. Interested?",
				"Stuck on that button? A quick tip can unblock you.",
			},
			PatternInactivity: {
				"Need help getting started? Take a quick tour.",
				"Not sure what to do next? We can show you around.",
				"Want a quick overview of what you can do here?",
			},
		},
	}
}

// TourFor resolves the tour for a pattern on a page, falling back to the
// pattern's default entry and then to the global default tour.
func (c Catalog) TourFor(patternID, page string) string {
	table, ok := c.Tours[patternID]
	if !ok {
		return DefaultTour
	}
	if tour, ok := table[page]; ok {
		return tour
	}
	if tour, ok := table[DefaultPageKey]; ok {
		return tour
	}
	return DefaultTour
}
