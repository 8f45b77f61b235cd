package scrim

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestStepScheduler(t *testing.T) {
	t.Run("timers fire in deadline order", func(t *testing.T) {
		s := NewStepScheduler()
		var order []string
		s.AfterFunc(20*time.Millisecond, func() { order = append(order, "late") })
		s.AfterFunc(10*time.Millisecond, func() { order = append(order, "early") })

		s.Advance(30 * time.Millisecond)

		want := []string{"early", "late"}
		if diff := cmp.Diff(want, order); diff != "" {
			t.Fatalf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("advance stops at its target", func(t *testing.T) {
		s := NewStepScheduler()
		fired := false
		s.AfterFunc(50*time.Millisecond, func() { fired = true })

		s.Advance(49 * time.Millisecond)
		if fired {
			t.Fatal("timer fired before its deadline")
		}
		s.Advance(1 * time.Millisecond)
		if !fired {
			t.Fatal("timer did not fire at its deadline")
		}
	})

	t.Run("cancelled timer never fires", func(t *testing.T) {
		s := NewStepScheduler()
		fired := false
		cancel := s.AfterFunc(10*time.Millisecond, func() { fired = true })
		cancel()
		cancel() // idempotent

		s.Advance(time.Second)
		if fired {
			t.Fatal("cancelled timer fired")
		}
	})

	t.Run("frames run before due timers", func(t *testing.T) {
		s := NewStepScheduler()
		var order []string
		s.AfterFunc(0, func() { order = append(order, "timer") })
		s.NextFrame(func() { order = append(order, "frame") })

		s.Step()

		want := []string{"frame", "timer"}
		if diff := cmp.Diff(want, order); diff != "" {
			t.Fatalf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("work scheduled by a callback runs in the same advance", func(t *testing.T) {
		s := NewStepScheduler()
		var order []string
		s.AfterFunc(10*time.Millisecond, func() {
			order = append(order, "first")
			s.AfterFunc(10*time.Millisecond, func() { order = append(order, "second") })
		})

		s.Advance(25 * time.Millisecond)

		want := []string{"first", "second"}
		if diff := cmp.Diff(want, order); diff != "" {
			t.Fatalf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("pending and next deadline", func(t *testing.T) {
		s := NewStepScheduler()
		if s.Pending() {
			t.Fatal("empty scheduler reports pending work")
		}
		if _, ok := s.NextDeadline(); ok {
			t.Fatal("empty scheduler reports a deadline")
		}

		s.AfterFunc(40*time.Millisecond, func() {})
		d, ok := s.NextDeadline()
		if !ok || d != 40*time.Millisecond {
			t.Fatalf("NextDeadline = %v, %v; want 40ms, true", d, ok)
		}

		s.Advance(15 * time.Millisecond)
		d, _ = s.NextDeadline()
		if d != 25*time.Millisecond {
			t.Fatalf("NextDeadline after advance = %v, want 25ms", d)
		}

		s.Advance(time.Minute)
		if s.Pending() {
			t.Fatal("fired timers should not count as pending")
		}
	})

	t.Run("virtual time accumulates", func(t *testing.T) {
		s := NewStepScheduler()
		s.Advance(10 * time.Millisecond)
		s.Advance(5 * time.Millisecond)
		if s.Now() != 15*time.Millisecond {
			t.Fatalf("Now = %v, want 15ms", s.Now())
		}
	})
}

func TestTimerScheduler(t *testing.T) {
	t.Run("marshals through Do", func(t *testing.T) {
		s := NewTimerScheduler()
		run := make(chan func(), 1)
		s.Do = func(fn func()) { run <- fn }

		done := make(chan struct{})
		s.AfterFunc(time.Millisecond, func() { close(done) })

		select {
		case fn := <-run:
			fn()
		case <-time.After(time.Second):
			t.Fatal("callback never reached Do")
		}
		<-done
	})

	t.Run("cancel stops delivery", func(t *testing.T) {
		s := NewTimerScheduler()
		fired := make(chan struct{}, 1)
		cancel := s.AfterFunc(20*time.Millisecond, func() { fired <- struct{}{} })
		cancel()

		select {
		case <-fired:
			t.Fatal("cancelled timer fired")
		case <-time.After(60 * time.Millisecond):
		}
	})
}
