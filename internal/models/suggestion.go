package models

import "time"

// SuggestionState is the queue state of a suggestion. Transitions are
// one-directional except pending → pending via retry.
type SuggestionState string

const (
	StatePending   SuggestionState = "pending"
	StateActive    SuggestionState = "active"
	StateDismissed SuggestionState = "dismissed"
	StateCompleted SuggestionState = "completed"
	StateExpired   SuggestionState = "expired"
)

// ContextualSuggestion is the queue's unit of work: the materialized
// decision to offer a specific tour, carrying provenance, timing, and
// lifecycle metadata. The orchestrator owns it from creation to terminal
// state.
type ContextualSuggestion struct {
	ID     string `json:"id"`
	TourID string `json:"tour_id"`

	// Provenance
	Reason        string        `json:"reason"`
	Message       string        `json:"message"`
	Confidence    float64       `json:"confidence"`
	Priority      Priority      `json:"priority"`
	TriggerSource TriggerSource `json:"trigger_source"`

	// Timing
	OptimalDelay    time.Duration `json:"optimal_delay"`
	ShouldShowNow   bool          `json:"should_show_now"`
	AlternativeTime *time.Time    `json:"alternative_time,omitempty"`

	// Context
	PageContext string            `json:"page_context"`
	UserContext map[string]string `json:"user_context,omitempty"`

	// Lifecycle
	State          SuggestionState `json:"state"`
	CreatedAt      time.Time       `json:"created_at"`
	ShownAt        *time.Time      `json:"shown_at,omitempty"`
	ExpiresAt      time.Time       `json:"expires_at"`
	MaxRetries     int             `json:"max_retries"`
	CurrentRetries int             `json:"current_retries"`

	// Analytics payloads
	BehaviorData  map[string]interface{} `json:"behavior_data,omitempty"`
	TimingFactors []TimingFactor         `json:"timing_factors,omitempty"`
}

// Expired reports whether the suggestion's hard deadline has passed.
func (s *ContextualSuggestion) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// QueueStatus is a point-in-time summary of the orchestrator's queue,
// exposed to hosts for introspection.
type QueueStatus struct {
	Pending          int    `json:"pending"`
	ActiveID         string `json:"active_id,omitempty"`
	Dismissed        int    `json:"dismissed"`
	Completed        int    `json:"completed"`
	Expired          int    `json:"expired"`
	ShownThisSession int    `json:"shown_this_session"`
	PageContext      string `json:"page_context"`
}
