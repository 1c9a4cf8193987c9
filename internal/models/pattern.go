package models

import "time"

// Priority ranks patterns and the suggestions they produce.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank returns an integer ordering for priorities, higher meaning more
// urgent. Unknown priorities rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ConditionKind identifies one of the fixed behavior condition evaluators.
// Unknown kinds are tolerated and score 0.
type ConditionKind string

const (
	CondInactivity          ConditionKind = "inactivity"
	CondErrorPattern        ConditionKind = "error_pattern"
	CondNavigationConfusion ConditionKind = "navigation_confusion"
	CondFeatureStruggle     ConditionKind = "feature_struggle"
	CondRepeatedAction      ConditionKind = "repeated_action"
	CondTimeThreshold       ConditionKind = "time_threshold"
)

// BehaviorCondition is one weighted condition inside a pattern. Threshold
// semantics depend on the kind: a duration in milliseconds for inactivity
// and time_threshold, a count for everything else. Window bounds how far
// back in the log the evaluator looks.
type BehaviorCondition struct {
	Kind      ConditionKind `json:"kind"`
	Threshold float64       `json:"threshold"`
	Window    time.Duration `json:"window"`
	Weight    float64       `json:"weight"`
}

// BehaviorPattern is one entry of the static pattern catalog. Catalogs are
// immutable at runtime; each orchestrator instance gets its own copy.
type BehaviorPattern struct {
	ID          string              `json:"id"`
	Description string              `json:"description"`
	Conditions  []BehaviorCondition `json:"conditions"`

	// Confidence is the minimum weighted score (after the sensitivity
	// multiplier) required for the pattern to trigger.
	Confidence float64 `json:"confidence"`

	Priority Priority `json:"priority"`

	// Cooldown suppresses re-triggering of this pattern after a trigger.
	Cooldown time.Duration `json:"cooldown"`

	// MaxPerSession caps how many times this pattern may trigger in one
	// session. Zero means unlimited.
	MaxPerSession int `json:"max_per_session"`
}

// TriggerSource records what caused a suggestion to be created.
type TriggerSource string

const (
	SourceBehavior  TriggerSource = "behavior"
	SourceTiming    TriggerSource = "timing"
	SourceManual    TriggerSource = "manual"
	SourceScheduled TriggerSource = "scheduled"
)

// TriggerResult is the outcome of one analysis pass: the single
// highest-confidence pattern match, ready to hand to the orchestrator.
// It is ephemeral; the orchestrator consumes it immediately.
type TriggerResult struct {
	PatternID  string                 `json:"pattern_id"`
	TourID     string                 `json:"tour_id"`
	Reason     string                 `json:"reason"`
	Confidence float64                `json:"confidence"`
	Priority   Priority               `json:"priority"`
	Message    string                 `json:"message"`
	Delay      time.Duration          `json:"delay"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
