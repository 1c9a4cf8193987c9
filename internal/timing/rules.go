package timing

import (
	"fmt"
	"time"

	"github.com/waltergaltieri/nudge/internal/config"
	"github.com/waltergaltieri/nudge/internal/models"
)

// Rule factor names, also used in decision traces and analytics.
const (
	FactorTimeOfDay        = "time_of_day"
	FactorCognitiveLoad    = "cognitive_load"
	FactorInterruptibility = "interruptibility"
	FactorSessionFreshness = "session_freshness"
	FactorPageStability    = "page_stability"
	FactorUserActivity     = "user_activity"
)

// Rule weights. They sum to 1.0 so the weighted score is directly the
// recommendation confidence.
const (
	weightTimeOfDay        = 0.15
	weightCognitiveLoad    = 0.25
	weightInterruptibility = 0.20
	weightSessionFreshness = 0.10
	weightPageStability    = 0.10
	weightUserActivity     = 0.20
)

// Scores for boolean-ish rules.
const (
	scoreGood = 0.8
	scorePoor = 0.3
)

// evaluateRules scores every timing rule against the context and returns
// the factors plus the weighted confidence.
func evaluateRules(cfg config.TimingConfig, ctx models.TimingContext) ([]models.TimingFactor, float64) {
	factors := []models.TimingFactor{
		timeOfDayFactor(cfg.OptimalWindows, ctx.Now),
		loadFactor(ctx.CognitiveLoad),
		interruptibilityFactor(ctx.Interruptibility),
		freshnessFactor(ctx.SessionDuration, cfg.MinSessionAge),
		stabilityFactor(ctx.PageStableFor, cfg.MinPageStability),
		activityFactor(ctx.UserActivity),
	}

	var confidence float64
	for _, f := range factors {
		confidence += f.Impact
	}
	return factors, confidence
}

func timeOfDayFactor(windows []config.TimeWindow, now time.Time) models.TimingFactor {
	score := scorePoor
	for _, w := range windows {
		if w.Contains(now) {
			score = w.Weight
			break
		}
	}
	return models.TimingFactor{Factor: FactorTimeOfDay, Score: score, Impact: score * weightTimeOfDay}
}

func loadFactor(load models.LoadLevel) models.TimingFactor {
	score := 0.2
	switch load {
	case models.LevelLow:
		score = 0.9
	case models.LevelMedium:
		score = 0.6
	}
	return models.TimingFactor{Factor: FactorCognitiveLoad, Score: score, Impact: score * weightCognitiveLoad}
}

func interruptibilityFactor(level models.LoadLevel) models.TimingFactor {
	score := 0.2
	switch level {
	case models.LevelHigh:
		score = 0.9
	case models.LevelMedium:
		score = 0.6
	}
	return models.TimingFactor{Factor: FactorInterruptibility, Score: score, Impact: score * weightInterruptibility}
}

func freshnessFactor(sessionDuration, minAge time.Duration) models.TimingFactor {
	score := scoreGood
	if sessionDuration < minAge {
		score = scorePoor
	}
	return models.TimingFactor{Factor: FactorSessionFreshness, Score: score, Impact: score * weightSessionFreshness}
}

func stabilityFactor(stableFor, minStability time.Duration) models.TimingFactor {
	score := scoreGood
	if stableFor < minStability {
		score = scorePoor
	}
	return models.TimingFactor{Factor: FactorPageStability, Score: score, Impact: score * weightPageStability}
}

func activityFactor(activity models.UserActivity) models.TimingFactor {
	var score float64
	switch activity {
	case models.ActivityIdle:
		score = 0.9
	case models.ActivityActive:
		score = 0.7
	case models.ActivityDistracted:
		score = 0.4
	default:
		score = 0.2
	}
	return models.TimingFactor{Factor: FactorUserActivity, Score: score, Impact: score * weightUserActivity}
}

// weakestFactor returns the factor costing the most confidence, used to
// build the human-readable reason for a negative recommendation.
func weakestFactor(factors []models.TimingFactor) models.TimingFactor {
	weakest := factors[0]
	lost := weightFor(weakest.Factor) - weakest.Impact
	for _, f := range factors[1:] {
		if l := weightFor(f.Factor) - f.Impact; l > lost {
			weakest, lost = f, l
		}
	}
	return weakest
}

func weightFor(factor string) float64 {
	switch factor {
	case FactorTimeOfDay:
		return weightTimeOfDay
	case FactorCognitiveLoad:
		return weightCognitiveLoad
	case FactorInterruptibility:
		return weightInterruptibility
	case FactorSessionFreshness:
		return weightSessionFreshness
	case FactorPageStability:
		return weightPageStability
	case FactorUserActivity:
		return weightUserActivity
	default:
		return 0
	}
}

// strongestFactor returns the factor contributing the most confidence,
// used to name what makes a strong recommendation favorable.
func strongestFactor(factors []models.TimingFactor) models.TimingFactor {
	strongest := factors[0]
	for _, f := range factors[1:] {
		if f.Impact > strongest.Impact {
			strongest = f
		}
	}
	return strongest
}

func describeGoodFactor(f models.TimingFactor) string {
	switch f.Factor {
	case FactorTimeOfDay:
		return "inside a preferred time-of-day window"
	case FactorCognitiveLoad:
		return "cognitive load is light"
	case FactorInterruptibility:
		return "user is easy to interrupt right now"
	case FactorSessionFreshness:
		return "session is well underway"
	case FactorPageStability:
		return "page has settled"
	case FactorUserActivity:
		return "user has room for a suggestion"
	default:
		return fmt.Sprintf("favorable factor %s", f.Factor)
	}
}

func describeFactor(f models.TimingFactor) string {
	switch f.Factor {
	case FactorTimeOfDay:
		return "outside the preferred time-of-day windows"
	case FactorCognitiveLoad:
		return "cognitive load is elevated"
	case FactorInterruptibility:
		return "user is hard to interrupt right now"
	case FactorSessionFreshness:
		return "session just started"
	case FactorPageStability:
		return "page is still settling"
	case FactorUserActivity:
		return "user is busy"
	default:
		return fmt.Sprintf("unfavorable factor %s", f.Factor)
	}
}
