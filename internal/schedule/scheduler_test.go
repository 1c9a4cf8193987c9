package schedule

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestManualScheduler_Schedule(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	s := NewManualScheduler(start)

	var fired int
	s.Schedule(10*time.Second, func() { fired++ })

	s.Advance(5 * time.Second)
	if fired != 0 {
		t.Fatal("callback fired before its deadline")
	}

	s.Advance(5 * time.Second)
	if fired != 1 {
		t.Fatalf("callback fired %d times, want 1", fired)
	}

	// Already fired, further advances are no-ops.
	s.Advance(time.Minute)
	if fired != 1 {
		t.Fatalf("callback fired %d times after expiry, want 1", fired)
	}
}

func TestManualScheduler_Cancel(t *testing.T) {
	s := NewManualScheduler(time.Unix(0, 0))

	var fired bool
	cancel := s.Schedule(time.Second, func() { fired = true })
	cancel()

	s.Advance(time.Minute)
	if fired {
		t.Error("cancelled callback must not fire")
	}

	// Double cancel is a no-op.
	cancel()
}

func TestManualScheduler_Every(t *testing.T) {
	s := NewManualScheduler(time.Unix(0, 0))

	var ticks int
	cancel := s.Every(30*time.Second, func() { ticks++ })

	s.Advance(95 * time.Second)
	if ticks != 3 {
		t.Fatalf("got %d ticks in 95s at 30s interval, want 3", ticks)
	}

	cancel()
	s.Advance(time.Minute)
	if ticks != 3 {
		t.Fatalf("ticker fired after cancel: %d ticks", ticks)
	}
}

func TestManualScheduler_OrderAndClock(t *testing.T) {
	start := time.Unix(1000, 0)
	s := NewManualScheduler(start)

	var order []string
	s.Schedule(20*time.Second, func() { order = append(order, "b") })
	s.Schedule(10*time.Second, func() {
		order = append(order, "a")
		// The clock must read the firing task's deadline mid-callback.
		if got := s.Now(); !got.Equal(start.Add(10 * time.Second)) {
			t.Errorf("Now() during callback = %v, want %v", got, start.Add(10*time.Second))
		}
	})

	s.Advance(time.Minute)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("callbacks fired in order %v, want [a b]", order)
	}
	if got := s.Now(); !got.Equal(start.Add(time.Minute)) {
		t.Errorf("Now() after advance = %v, want %v", got, start.Add(time.Minute))
	}
}

func TestManualScheduler_CallbackMaySchedule(t *testing.T) {
	s := NewManualScheduler(time.Unix(0, 0))

	var chained bool
	s.Schedule(time.Second, func() {
		s.Schedule(time.Second, func() { chained = true })
	})

	s.Advance(3 * time.Second)
	if !chained {
		t.Error("callback scheduled from a callback should fire within the same advance")
	}
}

func TestManualScheduler_StopAll(t *testing.T) {
	s := NewManualScheduler(time.Unix(0, 0))

	var fired bool
	s.Schedule(time.Second, func() { fired = true })
	s.Every(time.Second, func() { fired = true })

	if s.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", s.Pending())
	}

	s.StopAll()
	s.Advance(time.Minute)

	if fired {
		t.Error("no callback may fire after StopAll")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after StopAll, want 0", s.Pending())
	}
}

func TestTimerScheduler_ScheduleAndCancel(t *testing.T) {
	s := NewTimerScheduler()
	defer s.StopAll()

	var fired atomic.Bool
	done := make(chan struct{})
	s.Schedule(10*time.Millisecond, func() {
		fired.Store(true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer callback did not fire")
	}
	if !fired.Load() {
		t.Error("callback should have fired")
	}

	var cancelled atomic.Bool
	cancel := s.Schedule(50*time.Millisecond, func() { cancelled.Store(true) })
	cancel()
	time.Sleep(100 * time.Millisecond)
	if cancelled.Load() {
		t.Error("cancelled timer must not fire")
	}
}

func TestTimerScheduler_StopAllCancelsEvery(t *testing.T) {
	s := NewTimerScheduler()

	var ticks atomic.Int32
	s.Every(10*time.Millisecond, func() { ticks.Add(1) })

	time.Sleep(35 * time.Millisecond)
	s.StopAll()
	after := ticks.Load()

	time.Sleep(50 * time.Millisecond)
	if got := ticks.Load(); got != after {
		t.Errorf("ticker advanced after StopAll: %d -> %d", after, got)
	}
}
