// Package constants provides named defaults used throughout the nudge
// codebase. This centralizes magic numbers for better maintainability
// and documentation. Every value here is overridable via config.
package constants

import "time"

// Analysis cadence constants
const (
	// DefaultAnalysisInterval is how often the periodic driver re-runs
	// pattern analysis and expires stale suggestions.
	DefaultAnalysisInterval = 30 * time.Second

	// InteractionWindow is the rolling window of the interaction log used
	// to derive activity, cognitive load, and interruptibility.
	InteractionWindow = 5 * time.Minute
)

// Behavior analysis constants
const (
	// DefaultMinTimeBetweenSuggestions is the global admission gate between
	// two behavior triggers.
	DefaultMinTimeBetweenSuggestions = time.Minute

	// DefaultMaxSuggestionsPerSession caps suggestions shown per session.
	DefaultMaxSuggestionsPerSession = 3

	// DefaultInactivityThreshold is how long without activity counts as
	// inactive for the inactivity condition.
	DefaultInactivityThreshold = 30 * time.Second

	// DefaultErrorThreshold is the per-context error count that marks a
	// repeated-error situation.
	DefaultErrorThreshold = 3

	// Sensitivity multipliers applied to every pattern score.
	SensitivityLow    = 0.7
	SensitivityMedium = 1.0
	SensitivityHigh   = 1.3
)

// Timing recommendation constants
const (
	// ShowConfidenceThreshold is the fixed confidence above which a timing
	// recommendation says to show now.
	ShowConfidenceThreshold = 0.6

	// StrongConfidenceThreshold marks a clearly favorable moment. The
	// recommendation reason names the strongest factor above it and falls
	// back to a generic adequate message between the two thresholds.
	StrongConfidenceThreshold = 0.8

	// DefaultMinDelay and DefaultMaxDelay bound the computed optimal delay.
	DefaultMinDelay = 2 * time.Second
	DefaultMaxDelay = 30 * time.Second

	// DefaultMinSessionAge is how settled a session must be before an
	// interruption scores well on session freshness.
	DefaultMinSessionAge = 30 * time.Second

	// DefaultMinPageStability is the minimum time since the page became
	// stable before interrupting scores well.
	DefaultMinPageStability = 5 * time.Second

	// Preference learning bounds: accepted tours converge toward showing
	// sooner, dismissed tours toward waiting longer.
	PreferenceFloor   = 0.5
	PreferenceCeiling = 2.0
	AcceptNudge       = 0.9
	DismissNudge      = 1.1
)

// Orchestrator constants
const (
	// DefaultMaxPendingSuggestions caps the pending queue length.
	DefaultMaxPendingSuggestions = 5

	// DefaultSuggestionCooldown is the minimum time between two shown
	// suggestions.
	DefaultSuggestionCooldown = 5 * time.Minute

	// DefaultMaxRetries bounds the pending → pending retry loop.
	DefaultMaxRetries = 2

	// DefaultRetryDelayMultiplier is the exponential backoff base applied
	// per retry attempt.
	DefaultRetryDelayMultiplier = 1.5

	// DefaultExpirationTime is how long a suggestion stays eligible before
	// the expiration sweep drops it.
	DefaultExpirationTime = 30 * time.Minute

	// AlternativeTimeHorizon bounds how far in the future a deferred
	// suggestion may be scheduled for retry.
	AlternativeTimeHorizon = 24 * time.Hour
)
