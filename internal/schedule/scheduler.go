// Package schedule centralizes timer-based scheduling behind a single
// injectable abstraction. The engine never calls time.AfterFunc directly:
// every delayed show, retry, and periodic analysis tick goes through a
// Scheduler, so Destroy can cancel all outstanding timers through one
// registry and tests can drive the engine on a virtual clock.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// CancelFunc cancels a scheduled callback. Calling it more than once, or
// after the callback has fired, is a no-op.
type CancelFunc func()

// Scheduler schedules callbacks for future execution.
type Scheduler interface {
	// Schedule runs fn once after delay.
	Schedule(delay time.Duration, fn func()) CancelFunc

	// Every runs fn repeatedly at the given interval until cancelled.
	Every(interval time.Duration, fn func()) CancelFunc

	// Now returns the scheduler's current time.
	Now() time.Time

	// StopAll cancels every outstanding callback.
	StopAll()
}

// TimerScheduler is the production Scheduler backed by the runtime's
// timers. It is safe for concurrent use.
type TimerScheduler struct {
	mu     sync.Mutex
	nextID int
	timers map[int]*time.Timer
	ticks  map[int]chan struct{}
}

// NewTimerScheduler creates a Scheduler backed by real timers.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{
		timers: make(map[int]*time.Timer),
		ticks:  make(map[int]chan struct{}),
	}
}

// Schedule runs fn once after delay on a timer goroutine.
func (s *TimerScheduler) Schedule(delay time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	id := s.nextID
	s.nextID++

	t := time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		fn()
	})
	s.timers[id] = t
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t, ok := s.timers[id]; ok {
			t.Stop()
			delete(s.timers, id)
		}
	}
}

// Every runs fn at the given interval until cancelled.
func (s *TimerScheduler) Every(interval time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	id := s.nextID
	s.nextID++

	stop := make(chan struct{})
	s.ticks[id] = stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-stop:
				return
			}
		}
	}()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if ch, ok := s.ticks[id]; ok {
			close(ch)
			delete(s.ticks, id)
		}
	}
}

// Now returns the wall-clock time.
func (s *TimerScheduler) Now() time.Time {
	return time.Now()
}

// StopAll cancels all outstanding timers and tickers.
func (s *TimerScheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	for id, ch := range s.ticks {
		close(ch)
		delete(s.ticks, id)
	}
}

// manualTask is one pending callback on the virtual clock.
type manualTask struct {
	id    int
	at    time.Time
	every time.Duration // zero for one-shot
	fn    func()
}

// ManualScheduler is a Scheduler driven by an explicit virtual clock, for
// deterministic tests. Callbacks fire only when Advance moves the clock
// past their deadline, in deadline order, on the caller's goroutine.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Time
	next  int
	tasks []*manualTask
}

// NewManualScheduler creates a virtual-clock scheduler starting at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Schedule runs fn once when the virtual clock reaches now+delay.
func (s *ManualScheduler) Schedule(delay time.Duration, fn func()) CancelFunc {
	return s.add(delay, 0, fn)
}

// Every runs fn each time the virtual clock advances by interval.
func (s *ManualScheduler) Every(interval time.Duration, fn func()) CancelFunc {
	return s.add(interval, interval, fn)
}

func (s *ManualScheduler) add(delay, every time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &manualTask{id: s.next, at: s.now.Add(delay), every: every, fn: fn}
	s.next++
	s.tasks = append(s.tasks, t)

	id := t.id
	return func() { s.remove(id) }
}

func (s *ManualScheduler) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// Now returns the current virtual time.
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the virtual clock forward by d, firing due callbacks in
// deadline order. Callbacks run on the caller's goroutine without the
// scheduler lock held, so they may schedule or cancel further work.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	deadline := s.now.Add(d)
	s.mu.Unlock()

	for {
		t := s.popDue(deadline)
		if t == nil {
			break
		}
		t.fn()
	}

	s.mu.Lock()
	if deadline.After(s.now) {
		s.now = deadline
	}
	s.mu.Unlock()
}

// popDue removes and returns the earliest task due at or before deadline,
// advancing the clock to its deadline. Repeating tasks are re-queued.
func (s *ManualScheduler) popDue(deadline time.Time) *manualTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tasks) == 0 {
		return nil
	}

	sort.SliceStable(s.tasks, func(i, j int) bool {
		return s.tasks[i].at.Before(s.tasks[j].at)
	})

	t := s.tasks[0]
	if t.at.After(deadline) {
		return nil
	}

	s.tasks = s.tasks[1:]
	if t.at.After(s.now) {
		s.now = t.at
	}

	if t.every > 0 {
		s.tasks = append(s.tasks, &manualTask{id: t.id, at: t.at.Add(t.every), every: t.every, fn: t.fn})
	}

	return t
}

// StopAll drops every pending callback.
func (s *ManualScheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = nil
}

// Pending returns the number of outstanding callbacks, for tests.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
