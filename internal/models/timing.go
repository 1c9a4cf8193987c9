package models

import "time"

// UserActivity is the derived categorical state of the user's recent
// interaction pattern.
type UserActivity string

const (
	ActivityIdle       UserActivity = "idle"
	ActivityActive     UserActivity = "active"
	ActivityFocused    UserActivity = "focused"
	ActivityDistracted UserActivity = "distracted"
)

// LoadLevel grades derived estimates such as cognitive load and
// interruptibility.
type LoadLevel string

const (
	LevelLow    LoadLevel = "low"
	LevelMedium LoadLevel = "medium"
	LevelHigh   LoadLevel = "high"
)

// TimingContext is a snapshot of the timing-relevant facts at the moment of
// one analysis. It is recomputed on every pass and never stored.
type TimingContext struct {
	Now              time.Time     `json:"now"`
	Timezone         string        `json:"timezone"`
	SessionDuration  time.Duration `json:"session_duration"`
	PageStableFor    time.Duration `json:"page_stable_for"`
	UserActivity     UserActivity  `json:"user_activity"`
	CognitiveLoad    LoadLevel     `json:"cognitive_load"`
	Interruptibility LoadLevel     `json:"interruptibility"`
}

// TimingFactor is one scored rule contribution, kept for the human-readable
// reason and for analytics.
type TimingFactor struct {
	Factor string  `json:"factor"`
	Score  float64 `json:"score"`
	Impact float64 `json:"impact"`
}

// TimingRecommendation answers "should we interrupt the user right now, and
// if not, when should we retry".
type TimingRecommendation struct {
	ShouldShow      bool           `json:"should_show"`
	OptimalDelay    time.Duration  `json:"optimal_delay"`
	Confidence      float64        `json:"confidence"`
	Reason          string         `json:"reason"`
	AlternativeTime *time.Time     `json:"alternative_time,omitempty"`
	Factors         []TimingFactor `json:"factors"`
}

// InteractionRecord is one entry of the rolling interaction log that feeds
// the activity, load, and interruptibility derivations.
type InteractionRecord struct {
	Type      string    `json:"type"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}
