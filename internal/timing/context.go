// Package timing answers "is now a good moment to interrupt the user".
// A rolling interaction log feeds categorical derivations (activity,
// cognitive load, interruptibility); a fixed rule set scores them into a
// confidence and an optimal presentation delay.
package timing

import (
	"time"

	"github.com/waltergaltieri/nudge/internal/constants"
	"github.com/waltergaltieri/nudge/internal/models"
)

// Interaction type labels for the rolling log.
const (
	InteractionClick      = "click"
	InteractionScroll     = "scroll"
	InteractionNavigation = "navigation"
	InteractionError      = "error"
)

// Activity frequency bounds, in interactions per second over the rolling
// window.
const (
	distractedFrequency = 0.5
	focusedFrequency    = 0.2
	highLoadFrequency   = 1.0
	mediumLoadFrequency = 0.5
)

// Error rate bounds feeding the cognitive load derivation.
const (
	highLoadErrorRate   = 0.3
	mediumLoadErrorRate = 0.1
)

// Success rate bounds feeding the activity derivation.
const (
	lowSuccessRate  = 0.5
	highSuccessRate = 0.7
)

// deriveContext computes the timing context from the interaction log.
// recent must already be pruned to the rolling window.
func deriveContext(now, sessionStart, pageLoadedAt time.Time, recent []models.InteractionRecord) models.TimingContext {
	window := constants.InteractionWindow.Seconds()
	frequency := float64(len(recent)) / window

	var successes, errors int
	for _, r := range recent {
		if r.Type == InteractionError {
			errors++
			continue
		}
		if r.Success {
			successes++
		}
	}

	successRate := 1.0
	errorRate := 0.0
	if len(recent) > 0 {
		successRate = float64(successes) / float64(len(recent))
		errorRate = float64(errors) / float64(len(recent))
	}

	activity := deriveActivity(len(recent), frequency, successRate)
	load := deriveLoad(frequency, errorRate)

	return models.TimingContext{
		Now:              now,
		Timezone:         now.Location().String(),
		SessionDuration:  now.Sub(sessionStart),
		PageStableFor:    now.Sub(pageLoadedAt),
		UserActivity:     activity,
		CognitiveLoad:    load,
		Interruptibility: deriveInterruptibility(activity, load),
	}
}

// deriveActivity grades the user's recent interaction pattern. Frequent
// low-success interaction reads as distraction; steady successful
// interaction reads as focus.
func deriveActivity(count int, frequency, successRate float64) models.UserActivity {
	switch {
	case count == 0:
		return models.ActivityIdle
	case frequency >= distractedFrequency && successRate < lowSuccessRate:
		return models.ActivityDistracted
	case frequency >= focusedFrequency && successRate >= highSuccessRate:
		return models.ActivityFocused
	default:
		return models.ActivityActive
	}
}

func deriveLoad(frequency, errorRate float64) models.LoadLevel {
	switch {
	case errorRate > highLoadErrorRate || frequency > highLoadFrequency:
		return models.LevelHigh
	case errorRate > mediumLoadErrorRate || frequency > mediumLoadFrequency:
		return models.LevelMedium
	default:
		return models.LevelLow
	}
}

// deriveInterruptibility combines activity and load. Focus or high load
// means leave the user alone; idleness or low load means interrupting is
// cheap.
func deriveInterruptibility(activity models.UserActivity, load models.LoadLevel) models.LoadLevel {
	switch {
	case activity == models.ActivityFocused || load == models.LevelHigh:
		return models.LevelLow
	case activity == models.ActivityIdle || load == models.LevelLow:
		return models.LevelHigh
	default:
		return models.LevelMedium
	}
}
