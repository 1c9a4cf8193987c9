package engine

import (
	"context"
	"sync"
	"time"

	"github.com/waltergaltieri/nudge/internal/models"
)

// EventKind labels one suggestion lifecycle transition for analytics.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventRejected  EventKind = "rejected"
	EventShown     EventKind = "shown"
	EventAccepted  EventKind = "accepted"
	EventDismissed EventKind = "dismissed"
	EventExpired   EventKind = "expired"
)

// Event is one analytics record, mirrored to the sink when one is
// configured.
type Event struct {
	SuggestionID string          `json:"suggestion_id"`
	TourID       string          `json:"tour_id"`
	PatternID    string          `json:"pattern_id,omitempty"`
	Kind         EventKind       `json:"kind"`
	Reason       string          `json:"reason,omitempty"`
	Confidence   float64         `json:"confidence"`
	Priority     models.Priority `json:"priority"`
	PageContext  string          `json:"page_context,omitempty"`
	At           time.Time       `json:"at"`
}

// Sink receives analytics events. Implementations must tolerate concurrent
// calls; errors are logged and never propagate into the engine.
type Sink interface {
	RecordEvent(ctx context.Context, ev Event) error
	Close() error
}

// PatternStats aggregates outcomes per originating pattern.
type PatternStats struct {
	Triggered int `json:"triggered"`
	Accepted  int `json:"accepted"`
	Dismissed int `json:"dismissed"`
	Expired   int `json:"expired"`
}

// AnalyticsSnapshot is the in-memory aggregate exposed by
// GetAnalyticsData.
type AnalyticsSnapshot struct {
	Created    int                     `json:"created"`
	Rejected   int                     `json:"rejected"`
	Shown      int                     `json:"shown"`
	Accepted   int                     `json:"accepted"`
	Dismissed  int                     `json:"dismissed"`
	Expired    int                     `json:"expired"`
	ByPattern  map[string]PatternStats `json:"by_pattern"`
	ByRejector map[string]int          `json:"by_rejector"`
}

// AcceptanceRate is accepted over shown, or 0 before anything was shown.
func (a AnalyticsSnapshot) AcceptanceRate() float64 {
	if a.Shown == 0 {
		return 0
	}
	return float64(a.Accepted) / float64(a.Shown)
}

// recorder accumulates analytics in memory and forwards to the sink.
type recorder struct {
	mu      sync.Mutex
	enabled bool
	snap    AnalyticsSnapshot
	sink    Sink
	sinkErr func(error)
}

func newRecorder(enabled bool, sink Sink, sinkErr func(error)) *recorder {
	return &recorder{
		enabled: enabled,
		sink:    sink,
		sinkErr: sinkErr,
		snap: AnalyticsSnapshot{
			ByPattern:  make(map[string]PatternStats),
			ByRejector: make(map[string]int),
		},
	}
}

func (r *recorder) record(ev Event) {
	if r == nil || !r.enabled {
		return
	}

	r.mu.Lock()
	switch ev.Kind {
	case EventCreated:
		r.snap.Created++
		if ev.PatternID != "" {
			ps := r.snap.ByPattern[ev.PatternID]
			ps.Triggered++
			r.snap.ByPattern[ev.PatternID] = ps
		}
	case EventRejected:
		r.snap.Rejected++
		r.snap.ByRejector[ev.Reason]++
	case EventShown:
		r.snap.Shown++
	case EventAccepted:
		r.snap.Accepted++
		r.bumpPattern(ev.PatternID, func(ps *PatternStats) { ps.Accepted++ })
	case EventDismissed:
		r.snap.Dismissed++
		r.bumpPattern(ev.PatternID, func(ps *PatternStats) { ps.Dismissed++ })
	case EventExpired:
		r.snap.Expired++
		r.bumpPattern(ev.PatternID, func(ps *PatternStats) { ps.Expired++ })
	}
	sink := r.sink
	r.mu.Unlock()

	if sink != nil {
		go func() {
			if err := sink.RecordEvent(context.Background(), ev); err != nil && r.sinkErr != nil {
				r.sinkErr(err)
			}
		}()
	}
}

func (r *recorder) bumpPattern(patternID string, f func(*PatternStats)) {
	if patternID == "" {
		return
	}
	ps := r.snap.ByPattern[patternID]
	f(&ps)
	r.snap.ByPattern[patternID] = ps
}

// snapshot returns a deep copy of the aggregates.
func (r *recorder) snapshot() AnalyticsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := r.snap
	cp.ByPattern = make(map[string]PatternStats, len(r.snap.ByPattern))
	for k, v := range r.snap.ByPattern {
		cp.ByPattern[k] = v
	}
	cp.ByRejector = make(map[string]int, len(r.snap.ByRejector))
	for k, v := range r.snap.ByRejector {
		cp.ByRejector[k] = v
	}
	return cp
}
