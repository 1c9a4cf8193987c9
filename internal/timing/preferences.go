package timing

import "github.com/waltergaltieri/nudge/internal/constants"

// PreferenceFor returns the learned delay multiplier for a tour. Tours
// with no feedback yet sit at 1.0.
func (r *Recommender) PreferenceFor(tourID string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.prefs[tourID]; ok {
		return p
	}
	return 1.0
}

// RecordFeedback folds one accept or dismiss into the tour's delay
// multiplier. Accepts pull the multiplier down (show sooner next time),
// dismissals push it up, both bounded so one streak can never pin a tour.
// No-op when preference learning is disabled.
func (r *Recommender) RecordFeedback(tourID string, accepted bool) {
	if !r.cfg.LearnPreferences {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.prefs[tourID]
	if !ok {
		p = 1.0
	}
	if accepted {
		p *= constants.AcceptNudge
		if p < constants.PreferenceFloor {
			p = constants.PreferenceFloor
		}
	} else {
		p *= constants.DismissNudge
		if p > constants.PreferenceCeiling {
			p = constants.PreferenceCeiling
		}
	}
	r.prefs[tourID] = p
}
