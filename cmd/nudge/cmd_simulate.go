package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/waltergaltieri/nudge/internal/engine"
	"github.com/waltergaltieri/nudge/internal/host"
	"github.com/waltergaltieri/nudge/internal/models"
	"github.com/waltergaltieri/nudge/internal/schedule"
	"github.com/waltergaltieri/nudge/internal/utils"
)

// timelineEntry is one suggestion lifecycle transition observed during a
// replay, stamped with the virtual-clock offset from session start.
type timelineEntry struct {
	AtMs     int64  `json:"at_ms"`
	Event    string `json:"event"`
	TourID   string `json:"tour_id"`
	Pattern  string `json:"pattern,omitempty"`
	Priority string `json:"priority"`
	Reason   string `json:"reason,omitempty"`
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <session.jsonl>",
		Short: "Replay a session log and print the suggestion timeline",
		Long: `Replay a JSONL session log through the full engine on a virtual clock
and print every suggestion lifecycle transition.

Each record carries at_ms (offset from session start), a kind, and the
kind's payload fields. The clock advances record by record, so analysis
ticks, show timers, and expirations fire exactly as they would in a live
session of the same length. Use --settle to keep the clock running after
the last record so pending timers drain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			settle, _ := cmd.Flags().GetDuration("settle")
			seed, _ := cmd.Flags().GetInt64("seed")

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening session log: %w", err)
			}
			defer f.Close()

			records, err := host.ReadLog(f)
			if err != nil {
				return fmt.Errorf("parsing session log: %w", err)
			}

			start := time.Now()
			sched := schedule.NewManualScheduler(start)
			dispatcher := host.NewDispatcher()
			w := cmd.OutOrStdout()

			var timeline []timelineEntry
			record := func(event string, s models.ContextualSuggestion, reason string) {
				e := timelineEntry{
					AtMs:     sched.Now().Sub(start).Milliseconds(),
					Event:    event,
					TourID:   s.TourID,
					Pattern:  utils.GetString(s.BehaviorData, "pattern_id", ""),
					Priority: string(s.Priority),
					Reason:   reason,
				}
				timeline = append(timeline, e)
				if !jsonOut {
					fmt.Fprintf(w, "%8dms  %-9s %-24s %-8s %s\n", e.AtMs, e.Event, e.TourID, e.Priority, e.Reason)
				}
			}

			orch := engine.New(cfg, engine.Options{
				SessionID: "simulate",
				Source:    dispatcher,
				Scheduler: sched,
				Rand:      rand.New(rand.NewSource(seed)),
				Hooks: engine.Hooks{
					OnCreated:   func(s models.ContextualSuggestion) { record("created", s, s.Reason) },
					OnShown:     func(s models.ContextualSuggestion) { record("shown", s, "") },
					OnAccepted:  func(s models.ContextualSuggestion) { record("accepted", s, "") },
					OnDismissed: func(s models.ContextualSuggestion, r string) { record("dismissed", s, r) },
					OnExpired:   func(s models.ContextualSuggestion) { record("expired", s, "") },
				},
			})
			defer orch.Destroy()

			for _, rec := range records {
				if at := start.Add(time.Duration(rec.AtMs) * time.Millisecond); at.After(sched.Now()) {
					sched.Advance(at.Sub(sched.Now()))
				}
				replayRecord(orch, dispatcher, sched.Now(), rec)
			}
			if settle > 0 {
				sched.Advance(settle)
			}

			status := orch.GetQueueStatus()
			if jsonOut {
				return json.NewEncoder(w).Encode(struct {
					Timeline []timelineEntry    `json:"timeline"`
					Queue    models.QueueStatus `json:"queue"`
				}{timeline, status})
			}
			fmt.Fprintf(w, "\nreplayed %d records over %s\n", len(records), sched.Now().Sub(start))
			fmt.Fprintf(w, "queue: pending=%d shown=%d completed=%d dismissed=%d expired=%d\n",
				status.Pending, status.ShownThisSession, status.Completed, status.Dismissed, status.Expired)
			return nil
		},
	}

	cmd.Flags().Duration("settle", 2*time.Minute, "Virtual time to run after the last record")
	cmd.Flags().Int64("seed", 1, "Seed for suggestion message selection")

	return cmd
}

// replayRecord feeds one log record into the engine. The four host kinds
// go through the dispatcher like live events; the remaining kinds map to
// the direct tracking calls.
func replayRecord(orch *engine.Orchestrator, d *host.Dispatcher, now time.Time, rec host.Record) {
	switch rec.Kind {
	case string(host.KindInteraction):
		success := true
		if rec.Success != nil {
			success = *rec.Success
		}
		d.Publish(host.Event{Kind: host.KindInteraction, Timestamp: now, Element: rec.Element, Success: success})
	case string(host.KindScroll):
		d.Publish(host.Event{Kind: host.KindScroll, Timestamp: now})
	case string(host.KindNavigation):
		d.Publish(host.Event{Kind: host.KindNavigation, Timestamp: now, Path: rec.Path, Back: rec.Back})
	case string(host.KindError):
		d.Publish(host.Event{Kind: host.KindError, Timestamp: now, ErrorType: rec.ErrorType, ErrorContext: rec.ErrorContext})
	case "feature":
		orch.TrackFeatureUsage(rec.Feature)
	case "abandoned":
		orch.TrackAbandonedAction(rec.Action, rec.Step)
	case "help":
		orch.TrackHelpRequest(rec.Help)
	}
}
