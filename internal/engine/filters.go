package engine

import (
	"time"

	"github.com/waltergaltieri/nudge/internal/models"
)

// Admission filter names, used in decision traces and rejection reasons.
const (
	FilterSessionCap    = "session_cap"
	FilterCooldown      = "cooldown"
	FilterQueueCapacity = "queue_capacity"
	FilterDuplicate     = "duplicate"
	FilterContext       = "context"
	FilterMinPriority   = "min_priority"
)

// admit runs the admission filters against a candidate, in fixed order.
// It returns the name of the rejecting filter, or "" when the candidate
// passes. Manual suggestions skip the session cap and cooldown: the user
// asked for them explicitly. Callers hold o.mu.
func (o *Orchestrator) admit(s *models.ContextualSuggestion, now time.Time) string {
	if s.TriggerSource != models.SourceManual {
		if o.cfg.MaxSuggestionsPerSession > 0 && o.shownThisSession >= o.cfg.MaxSuggestionsPerSession {
			return FilterSessionCap
		}
		if !o.lastShownAt.IsZero() && now.Sub(o.lastShownAt) < o.cfg.SuggestionCooldown {
			return FilterCooldown
		}
	}

	if o.cfg.MaxPendingSuggestions > 0 && o.pending.len() >= o.cfg.MaxPendingSuggestions {
		return FilterQueueCapacity
	}

	if o.cfg.DuplicateFilter {
		for _, it := range o.pending.items {
			if it.TourID == s.TourID && it.PageContext == s.PageContext {
				return FilterDuplicate
			}
		}
		if o.active != nil && o.active.TourID == s.TourID && o.active.PageContext == s.PageContext {
			return FilterDuplicate
		}
	}

	if o.cfg.ContextFilter && s.PageContext != "" && o.pageContext != "" && s.PageContext != o.pageContext {
		return FilterContext
	}

	if o.cfg.MinPriority != "" && s.Priority.Rank() < models.Priority(o.cfg.MinPriority).Rank() {
		return FilterMinPriority
	}

	return ""
}
