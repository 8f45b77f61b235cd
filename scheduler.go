package scrim

import (
	"sort"
	"time"
)

// Scheduler abstracts deferred execution: duration timers for animation
// tails and auto-dismissal, and next-frame callbacks for the one-frame
// deferral that lets a transition register its starting state before the
// target state is applied.
//
// Implementations must deliver callbacks on the goroutine that owns the
// document. TimerScheduler does this via a serializing hook; StepScheduler
// is advanced explicitly and is the natural fit for tests and for event
// loops that already have a tick source (see the bubbletea adapter).
type Scheduler interface {
	// AfterFunc runs fn once d has elapsed. The returned cancel function
	// stops delivery; calling it after delivery is a no-op.
	AfterFunc(d time.Duration, fn func()) (cancel func())

	// NextFrame runs fn at the next frame boundary.
	NextFrame(fn func()) (cancel func())
}

// FrameInterval is the nominal frame period used when a scheduler has to
// convert "next frame" into a duration.
const FrameInterval = 16 * time.Millisecond

// TimerScheduler runs callbacks on real timers. Because time.AfterFunc
// fires on its own goroutine, callers that share a document across
// callbacks should set Do to marshal execution onto their loop; the
// default invokes callbacks inline on the timer goroutine.
type TimerScheduler struct {
	// Do, when non-nil, receives every callback for execution.
	Do func(fn func())
}

// NewTimerScheduler creates a scheduler backed by real timers.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

func (s *TimerScheduler) run(fn func()) {
	if s.Do != nil {
		s.Do(fn)
		return
	}
	fn()
}

// AfterFunc implements Scheduler.
func (s *TimerScheduler) AfterFunc(d time.Duration, fn func()) (cancel func()) {
	t := time.AfterFunc(d, func() { s.run(fn) })
	return func() { t.Stop() }
}

// NextFrame implements Scheduler.
func (s *TimerScheduler) NextFrame(fn func()) (cancel func()) {
	return s.AfterFunc(FrameInterval, fn)
}

// StepScheduler queues callbacks and runs them when explicitly advanced.
// It gives tests full control over time and lets event-loop integrations
// drive all deferred work from their own tick messages.
type StepScheduler struct {
	now    time.Duration
	nextID int
	timers []*stepTimer
	frames []*stepTimer
}

type stepTimer struct {
	id       int
	deadline time.Duration
	fn       func()
	stopped  bool
}

// NewStepScheduler creates a manually advanced scheduler.
func NewStepScheduler() *StepScheduler {
	return &StepScheduler{}
}

// AfterFunc implements Scheduler.
func (s *StepScheduler) AfterFunc(d time.Duration, fn func()) (cancel func()) {
	if d < 0 {
		d = 0
	}
	t := &stepTimer{id: s.nextID, deadline: s.now + d, fn: fn}
	s.nextID++
	s.timers = append(s.timers, t)
	return func() { t.stopped = true }
}

// NextFrame implements Scheduler. Frame callbacks run on the next Advance
// or Step call, before any timer whose deadline has passed.
func (s *StepScheduler) NextFrame(fn func()) (cancel func()) {
	t := &stepTimer{id: s.nextID, fn: fn}
	s.nextID++
	s.frames = append(s.frames, t)
	return func() { t.stopped = true }
}

// Advance moves time forward by d, running frame callbacks first and then
// every timer whose deadline has been reached, in deadline order. Work
// scheduled by callbacks within the advanced window runs in the same call.
func (s *StepScheduler) Advance(d time.Duration) {
	target := s.now + d
	s.runFrames()
	for {
		t := s.dueTimer(target)
		if t == nil {
			break
		}
		if t.deadline > s.now {
			s.now = t.deadline
		}
		t.fn()
		s.runFrames()
	}
	s.now = target
}

// Step runs pending frame callbacks and any timers already due, without
// moving time forward.
func (s *StepScheduler) Step() {
	s.Advance(0)
}

// Pending reports whether any timer or frame callback is queued.
func (s *StepScheduler) Pending() bool {
	for _, t := range s.timers {
		if !t.stopped {
			return true
		}
	}
	for _, f := range s.frames {
		if !f.stopped {
			return true
		}
	}
	return false
}

// NextDeadline returns the delay until the earliest pending callback and
// whether one exists. Frame callbacks report FrameInterval.
func (s *StepScheduler) NextDeadline() (time.Duration, bool) {
	best := time.Duration(-1)
	for _, f := range s.frames {
		if !f.stopped {
			best = FrameInterval
			break
		}
	}
	for _, t := range s.timers {
		if t.stopped {
			continue
		}
		d := t.deadline - s.now
		if d < 0 {
			d = 0
		}
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// Now returns the scheduler's virtual time.
func (s *StepScheduler) Now() time.Duration { return s.now }

func (s *StepScheduler) runFrames() {
	for len(s.frames) > 0 {
		batch := s.frames
		s.frames = nil
		for _, f := range batch {
			if !f.stopped {
				f.fn()
			}
		}
	}
}

// dueTimer pops the earliest unexpired timer due at or before target.
func (s *StepScheduler) dueTimer(target time.Duration) *stepTimer {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.timers = live
	if len(s.timers) == 0 {
		return nil
	}
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].deadline != s.timers[j].deadline {
			return s.timers[i].deadline < s.timers[j].deadline
		}
		return s.timers[i].id < s.timers[j].id
	})
	t := s.timers[0]
	if t.deadline > target {
		return nil
	}
	s.timers = s.timers[1:]
	return t
}
