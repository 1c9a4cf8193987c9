// Package models defines the shared data model for the nudge engine:
// the behavior log and its event records, the pattern catalog types,
// timing contexts and recommendations, and queued suggestions.
package models

import (
	"time"
)

// ClickEvent records a single pointer interaction with an element.
type ClickEvent struct {
	Element   string    `json:"element"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
}

// ScrollEvent records a scroll notification from the host.
type ScrollEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// FormFieldEvent records an interaction with a form field, including how
// many validation errors the field has accumulated.
type FormFieldEvent struct {
	Form       string    `json:"form"`
	Field      string    `json:"field"`
	ErrorCount int       `json:"error_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// ErrorEvent records a runtime or user-facing error observed by the host.
type ErrorEvent struct {
	Type      string    `json:"type"`
	Context   string    `json:"context"`
	Timestamp time.Time `json:"timestamp"`
}

// HelpRequest records an explicit request for help from the user.
type HelpRequest struct {
	Context   string    `json:"context"`
	Timestamp time.Time `json:"timestamp"`
}

// FeatureUsage tracks aggregate usage of a single named feature.
type FeatureUsage struct {
	FirstUse time.Time `json:"first_use"`
	LastUse  time.Time `json:"last_use"`
	Count    int       `json:"count"`
}

// AbandonedAction records a multi-step action the user started but walked
// away from, with the step at which it was abandoned.
type AbandonedAction struct {
	Action    string    `json:"action"`
	Step      string    `json:"step"`
	Timestamp time.Time `json:"timestamp"`
}

// BehaviorLog is the rolling record of everything observed during one
// session. It is owned exclusively by the signal tracker; all analysis
// reads window it by time, so its monotonic growth within a session never
// leaks into decision logic.
type BehaviorLog struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id,omitempty"`
	StartTime    time.Time `json:"start_time"`
	LastActivity time.Time `json:"last_activity"`

	Clicks           []ClickEvent            `json:"clicks,omitempty"`
	Scrolls          []ScrollEvent           `json:"scrolls,omitempty"`
	FormFields       []FormFieldEvent        `json:"form_fields,omitempty"`
	Errors           []ErrorEvent            `json:"errors,omitempty"`
	HelpRequests     []HelpRequest           `json:"help_requests,omitempty"`
	NavigationPath   []string                `json:"navigation_path,omitempty"`
	BackNavigations  int                     `json:"back_navigations"`
	FeatureUsage     map[string]FeatureUsage `json:"feature_usage,omitempty"`
	AbandonedActions []AbandonedAction       `json:"abandoned_actions,omitempty"`
}

// NewBehaviorLog creates an empty behavior log for a session starting now.
func NewBehaviorLog(sessionID, userID string, now time.Time) *BehaviorLog {
	return &BehaviorLog{
		SessionID:    sessionID,
		UserID:       userID,
		StartTime:    now,
		LastActivity: now,
		FeatureUsage: make(map[string]FeatureUsage),
	}
}

// CurrentPage returns the most recent entry of the navigation path, or ""
// when no navigation has been observed yet.
func (l *BehaviorLog) CurrentPage() string {
	if len(l.NavigationPath) == 0 {
		return ""
	}
	return l.NavigationPath[len(l.NavigationPath)-1]
}

// ErrorsSince returns errors with a timestamp at or after cutoff.
func (l *BehaviorLog) ErrorsSince(cutoff time.Time) []ErrorEvent {
	var out []ErrorEvent
	for _, e := range l.Errors {
		if !e.Timestamp.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// ClicksSince returns click events with a timestamp at or after cutoff.
func (l *BehaviorLog) ClicksSince(cutoff time.Time) []ClickEvent {
	var out []ClickEvent
	for _, c := range l.Clicks {
		if !c.Timestamp.Before(cutoff) {
			out = append(out, c)
		}
	}
	return out
}

// AbandonedSince returns abandoned actions at or after cutoff.
func (l *BehaviorLog) AbandonedSince(cutoff time.Time) []AbandonedAction {
	var out []AbandonedAction
	for _, a := range l.AbandonedActions {
		if !a.Timestamp.Before(cutoff) {
			out = append(out, a)
		}
	}
	return out
}
