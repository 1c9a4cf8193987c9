package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/waltergaltieri/nudge/internal/host"
	"github.com/waltergaltieri/nudge/internal/models"
	"github.com/waltergaltieri/nudge/internal/ratelimit"
	"github.com/waltergaltieri/nudge/internal/sanitize"
	"github.com/waltergaltieri/nudge/internal/utils"
)

// registerTools registers all nudge MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "nudge_track",
		Description: "Record one user interaction event (click, scroll, navigation, error, feature use, abandoned action, or help request)",
	}, s.handleNudgeTrack)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "nudge_trigger",
		Description: "Queue a guided tour suggestion explicitly, bypassing behavior analysis",
	}, s.handleNudgeTrigger)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "nudge_status",
		Description: "Get the suggestion queue status and the currently active suggestion",
	}, s.handleNudgeStatus)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "nudge_accept",
		Description: "Mark a suggestion accepted (the user started the tour)",
	}, s.handleNudgeAccept)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "nudge_dismiss",
		Description: "Mark a suggestion dismissed, optionally with a reason",
	}, s.handleNudgeDismiss)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "nudge_analytics",
		Description: "Get aggregated suggestion analytics for this session",
	}, s.handleNudgeAnalytics)
}

func (s *Server) handleNudgeTrack(ctx context.Context, req *sdk.CallToolRequest, args NudgeTrackInput) (*sdk.CallToolResult, NudgeTrackOutput, error) {
	if err := ratelimit.CheckLimit(s.toolLimiters, "nudge_track"); err != nil {
		return nil, NudgeTrackOutput{}, err
	}

	switch args.Kind {
	case "interaction":
		s.orchestrator.TrackEvent(host.Event{Kind: host.KindInteraction, Element: sanitize.Identifier(args.Element), Success: args.Success})
	case "scroll":
		s.orchestrator.TrackEvent(host.Event{Kind: host.KindScroll})
	case "navigation":
		s.orchestrator.TrackEvent(host.Event{Kind: host.KindNavigation, Path: sanitize.Identifier(args.Path), Back: args.Back})
	case "error":
		s.orchestrator.TrackEvent(host.Event{Kind: host.KindError, ErrorType: sanitize.Identifier(args.ErrorType), ErrorContext: sanitize.Text(args.ErrorContext)})
	case "feature":
		s.orchestrator.TrackFeatureUsage(sanitize.Identifier(args.Feature))
	case "abandoned":
		s.orchestrator.TrackAbandonedAction(sanitize.Identifier(args.Action), sanitize.Identifier(args.Step))
	case "help":
		s.orchestrator.TrackHelpRequest(sanitize.Text(args.Context))
	default:
		return nil, NudgeTrackOutput{}, fmt.Errorf("unknown event kind %q", args.Kind)
	}

	return nil, NudgeTrackOutput{Tracked: true}, nil
}

func (s *Server) handleNudgeTrigger(ctx context.Context, req *sdk.CallToolRequest, args NudgeTriggerInput) (*sdk.CallToolResult, NudgeTriggerOutput, error) {
	if err := ratelimit.CheckLimit(s.toolLimiters, "nudge_trigger"); err != nil {
		return nil, NudgeTriggerOutput{}, err
	}
	tourID := sanitize.Identifier(args.TourID)
	if tourID == "" {
		return nil, NudgeTriggerOutput{}, fmt.Errorf("tour_id is required")
	}

	suggestion, rejected := s.orchestrator.TriggerManualSuggestion(tourID, sanitize.Text(args.Message))
	out := NudgeTriggerOutput{Rejected: rejected}
	if suggestion != nil {
		summary := summarize(*suggestion)
		out.Suggestion = &summary
	}
	return nil, out, nil
}

func (s *Server) handleNudgeStatus(ctx context.Context, req *sdk.CallToolRequest, args NudgeStatusInput) (*sdk.CallToolResult, NudgeStatusOutput, error) {
	if err := ratelimit.CheckLimit(s.toolLimiters, "nudge_status"); err != nil {
		return nil, NudgeStatusOutput{}, err
	}

	st := s.orchestrator.GetQueueStatus()
	out := NudgeStatusOutput{
		Pending:          st.Pending,
		Dismissed:        st.Dismissed,
		Completed:        st.Completed,
		Expired:          st.Expired,
		ShownThisSession: st.ShownThisSession,
		PageContext:      st.PageContext,
	}
	if active := s.orchestrator.GetActiveSuggestion(); active != nil {
		summary := summarize(*active)
		out.Active = &summary
	}
	if args.IncludePending {
		for _, s := range s.orchestrator.GetPendingSuggestions() {
			out.Queue = append(out.Queue, summarize(s))
		}
	}
	return nil, out, nil
}

func (s *Server) handleNudgeAccept(ctx context.Context, req *sdk.CallToolRequest, args NudgeAcceptInput) (*sdk.CallToolResult, NudgeAcceptOutput, error) {
	if err := ratelimit.CheckLimit(s.toolLimiters, "nudge_accept"); err != nil {
		return nil, NudgeAcceptOutput{}, err
	}

	if !s.orchestrator.Accept(args.SuggestionID) {
		return nil, NudgeAcceptOutput{Message: "no matching suggestion to accept"}, nil
	}
	return nil, NudgeAcceptOutput{Accepted: true, Message: "suggestion accepted"}, nil
}

func (s *Server) handleNudgeDismiss(ctx context.Context, req *sdk.CallToolRequest, args NudgeDismissInput) (*sdk.CallToolResult, NudgeDismissOutput, error) {
	if err := ratelimit.CheckLimit(s.toolLimiters, "nudge_dismiss"); err != nil {
		return nil, NudgeDismissOutput{}, err
	}

	if !s.orchestrator.Dismiss(args.SuggestionID, args.Reason) {
		return nil, NudgeDismissOutput{Message: "no matching suggestion to dismiss"}, nil
	}
	return nil, NudgeDismissOutput{Dismissed: true, Message: "suggestion dismissed"}, nil
}

func (s *Server) handleNudgeAnalytics(ctx context.Context, req *sdk.CallToolRequest, args NudgeAnalyticsInput) (*sdk.CallToolResult, NudgeAnalyticsOutput, error) {
	if err := ratelimit.CheckLimit(s.toolLimiters, "nudge_analytics"); err != nil {
		return nil, NudgeAnalyticsOutput{}, err
	}

	snap := s.orchestrator.GetAnalyticsData()
	out := NudgeAnalyticsOutput{
		Created:        snap.Created,
		Rejected:       snap.Rejected,
		Shown:          snap.Shown,
		Accepted:       snap.Accepted,
		Dismissed:      snap.Dismissed,
		Expired:        snap.Expired,
		AcceptanceRate: snap.AcceptanceRate(),
		ByRejector:     snap.ByRejector,
	}
	if len(snap.ByPattern) > 0 {
		out.ByPattern = make(map[string]int, len(snap.ByPattern))
		for id, ps := range snap.ByPattern {
			out.ByPattern[id] = ps.Triggered
		}
	}
	return nil, out, nil
}

func summarize(s models.ContextualSuggestion) SuggestionSummary {
	return SuggestionSummary{
		ID:           s.ID,
		TourID:       s.TourID,
		Pattern:      utils.GetString(s.BehaviorData, "pattern_id", ""),
		Message:      s.Message,
		Reason:       s.Reason,
		Confidence:   s.Confidence,
		Priority:     string(s.Priority),
		State:        string(s.State),
		PageContext:  s.PageContext,
		OptimalDelay: s.OptimalDelay,
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
	}
}
