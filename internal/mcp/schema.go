package mcp

import "time"

// NudgeTrackInput defines the input for the nudge_track tool.
type NudgeTrackInput struct {
	Kind         string `json:"kind" jsonschema:"Event kind: 'interaction' 'scroll' 'navigation' 'error' 'feature' 'abandoned' or 'help'"`
	Element      string `json:"element,omitempty" jsonschema:"Interacted element identifier (interaction events)"`
	Success      bool   `json:"success,omitempty" jsonschema:"Whether the interaction succeeded (interaction events, default false)"`
	Path         string `json:"path,omitempty" jsonschema:"Navigated page path (navigation events)"`
	Back         bool   `json:"back,omitempty" jsonschema:"Whether the navigation was backwards (navigation events)"`
	ErrorType    string `json:"error_type,omitempty" jsonschema:"Error type (error events)"`
	ErrorContext string `json:"error_context,omitempty" jsonschema:"Page or feature where the error occurred (error events)"`
	Feature      string `json:"feature,omitempty" jsonschema:"Feature name (feature events)"`
	Action       string `json:"action,omitempty" jsonschema:"Abandoned action name (abandoned events)"`
	Step         string `json:"step,omitempty" jsonschema:"Step the action was abandoned at (abandoned events)"`
	Context      string `json:"context,omitempty" jsonschema:"Help request context (help events)"`
}

// NudgeTrackOutput defines the output for the nudge_track tool.
type NudgeTrackOutput struct {
	Tracked bool `json:"tracked" jsonschema:"Whether the event was recorded"`
}

// NudgeTriggerInput defines the input for the nudge_trigger tool.
type NudgeTriggerInput struct {
	TourID  string `json:"tour_id" jsonschema:"Tour to suggest"`
	Message string `json:"message,omitempty" jsonschema:"Suggestion message shown to the user"`
}

// NudgeTriggerOutput defines the output for the nudge_trigger tool.
type NudgeTriggerOutput struct {
	Suggestion *SuggestionSummary `json:"suggestion,omitempty" jsonschema:"The queued suggestion"`
	Rejected   string             `json:"rejected,omitempty" jsonschema:"Name of the admission filter that rejected the suggestion"`
}

// SuggestionSummary is the wire view of a suggestion.
type SuggestionSummary struct {
	ID           string        `json:"id"`
	TourID       string        `json:"tour_id"`
	Pattern      string        `json:"pattern,omitempty"`
	Message      string        `json:"message,omitempty"`
	Reason       string        `json:"reason"`
	Confidence   float64       `json:"confidence"`
	Priority     string        `json:"priority"`
	State        string        `json:"state"`
	PageContext  string        `json:"page_context,omitempty"`
	OptimalDelay time.Duration `json:"optimal_delay"`
	CreatedAt    time.Time     `json:"created_at"`
	ExpiresAt    time.Time     `json:"expires_at"`
}

// NudgeStatusInput defines the input for the nudge_status tool.
type NudgeStatusInput struct {
	IncludePending bool `json:"include_pending,omitempty" jsonschema:"Include the pending queue contents (default: false)"`
}

// NudgeStatusOutput defines the output for the nudge_status tool.
type NudgeStatusOutput struct {
	Pending          int                 `json:"pending" jsonschema:"Number of pending suggestions"`
	Active           *SuggestionSummary  `json:"active,omitempty" jsonschema:"The currently showing suggestion"`
	Dismissed        int                 `json:"dismissed"`
	Completed        int                 `json:"completed"`
	Expired          int                 `json:"expired"`
	ShownThisSession int                 `json:"shown_this_session"`
	PageContext      string              `json:"page_context,omitempty"`
	Queue            []SuggestionSummary `json:"queue,omitempty" jsonschema:"Pending suggestions in show order"`
}

// NudgeAcceptInput defines the input for the nudge_accept tool.
type NudgeAcceptInput struct {
	SuggestionID string `json:"suggestion_id,omitempty" jsonschema:"Suggestion to accept; empty means the active one"`
}

// NudgeAcceptOutput defines the output for the nudge_accept tool.
type NudgeAcceptOutput struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message" jsonschema:"Human-readable result message"`
}

// NudgeDismissInput defines the input for the nudge_dismiss tool.
type NudgeDismissInput struct {
	SuggestionID string `json:"suggestion_id,omitempty" jsonschema:"Suggestion to dismiss; empty means the active one"`
	Reason       string `json:"reason,omitempty" jsonschema:"Why the suggestion was dismissed"`
}

// NudgeDismissOutput defines the output for the nudge_dismiss tool.
type NudgeDismissOutput struct {
	Dismissed bool   `json:"dismissed"`
	Message   string `json:"message" jsonschema:"Human-readable result message"`
}

// NudgeAnalyticsInput defines the input for the nudge_analytics tool.
type NudgeAnalyticsInput struct{}

// NudgeAnalyticsOutput defines the output for the nudge_analytics tool.
type NudgeAnalyticsOutput struct {
	Created        int            `json:"created"`
	Rejected       int            `json:"rejected"`
	Shown          int            `json:"shown"`
	Accepted       int            `json:"accepted"`
	Dismissed      int            `json:"dismissed"`
	Expired        int            `json:"expired"`
	AcceptanceRate float64        `json:"acceptance_rate"`
	ByPattern      map[string]int `json:"by_pattern,omitempty" jsonschema:"Trigger counts per pattern"`
	ByRejector     map[string]int `json:"by_rejector,omitempty" jsonschema:"Rejection counts per admission filter"`
}
