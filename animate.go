package scrim

import (
	"math"
	"time"
)

// Speed selects a transition duration preset.
type Speed uint8

const (
	// SpeedNormal is the zero value so an unset Options.Animation gets the
	// default 250ms duration.
	SpeedNormal Speed = iota
	SpeedInstant
	SpeedFast
	SpeedSlow
)

// Interval returns the preset's wall-clock duration.
func (s Speed) Interval() time.Duration {
	switch s {
	case SpeedInstant:
		return 0
	case SpeedFast:
		return 150 * time.Millisecond
	case SpeedSlow:
		return 400 * time.Millisecond
	default:
		return 250 * time.Millisecond
	}
}

func (s Speed) String() string {
	switch s {
	case SpeedInstant:
		return "instant"
	case SpeedFast:
		return "fast"
	case SpeedSlow:
		return "slow"
	default:
		return "normal"
	}
}

// Easing maps linear progress in [0,1] to eased progress. Renderers that
// animate sample these; the lifecycle itself only needs the durations.
type Easing func(t float64) float64

// EaseOutCubic decelerates into the end state. Used for entrances.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// EaseInCubic accelerates away from the start state. Used for exits.
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseOutBack overshoots slightly before settling. Used for transitions
// that snap into a position, such as drawers.
func EaseOutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	u := t - 1
	return 1 + c3*math.Pow(u, 3) + c1*math.Pow(u, 2)
}

// Easing curve names carried on the transition-timing style property so
// renderers can sample the curve the lifecycle chose for each phase.
const (
	TimingLinear     = "linear"
	TimingDecelerate = "decelerate"
	TimingAccelerate = "accelerate"
	TimingSpring     = "spring"
)

// EasingByName resolves a transition-timing name to its curve. Unknown
// names resolve to linear.
func EasingByName(name string) Easing {
	switch name {
	case TimingDecelerate:
		return EaseOutCubic
	case TimingAccelerate:
		return EaseInCubic
	case TimingSpring:
		return EaseOutBack
	default:
		return func(t float64) float64 { return t }
	}
}

// Transition applies a style change to an element over a duration and
// reports completion. The starting styles are applied immediately; the
// target styles are deferred one frame so observers register the "from"
// state before the "to" state, which is what makes the change animatable
// rather than a snap.
//
// Completion is signaled by a transitionend event on the element, with the
// configured duration as a timer fallback, whichever comes first. The
// fallback keeps a transition from wedging when no renderer ever reports
// the end event.
type Transition struct {
	el     *Element
	styles *StyleManager
	done   bool
	onDone func()

	cancelFrame func()
	cancelTimer func()
	removeEnd   func()
	doneCh      chan struct{}
}

// StartTransition begins a style transition on el. from is applied now,
// to on the next frame. onDone runs exactly once, from the scheduler
// goroutine, unless the transition is cancelled first. A zero duration
// still defers completion to the timer so callers observe consistent
// asynchrony.
func StartTransition(sched Scheduler, el *Element, styles *StyleManager, from, to []PropValue, d time.Duration, timing string, onDone func()) *Transition {
	tr := &Transition{el: el, styles: styles, onDone: onDone, doneCh: make(chan struct{})}
	if el == nil {
		tr.finish()
		return tr
	}
	styles.Set(el, "transition-duration", d.String())
	styles.Set(el, "transition-timing", timing)
	styles.SetMany(el, from)
	tr.cancelFrame = sched.NextFrame(func() {
		tr.cancelFrame = nil
		styles.SetMany(el, to)
	})
	if doc := el.Document(); doc != nil {
		tr.removeEnd = el.On(EventTransitionEnd, func(*Event) { tr.finish() })
	}
	tr.cancelTimer = sched.AfterFunc(d, tr.finish)
	return tr
}

// Done returns a channel closed when the transition completes or is
// cancelled.
func (tr *Transition) Done() <-chan struct{} { return tr.doneCh }

// Finished reports whether the transition has completed or been cancelled.
func (tr *Transition) Finished() bool { return tr.done }

// Cancel stops the transition without running its completion callback.
// Pending style writes are dropped; already-applied styles stay in place
// for the owner's StyleManager to restore.
func (tr *Transition) Cancel() {
	if tr.done {
		return
	}
	tr.done = true
	tr.release()
	close(tr.doneCh)
}

func (tr *Transition) finish() {
	if tr.done {
		return
	}
	tr.done = true
	tr.release()
	if tr.onDone != nil {
		tr.onDone()
	}
	close(tr.doneCh)
}

func (tr *Transition) release() {
	if tr.cancelFrame != nil {
		tr.cancelFrame()
		tr.cancelFrame = nil
	}
	if tr.cancelTimer != nil {
		tr.cancelTimer()
		tr.cancelTimer = nil
	}
	if tr.removeEnd != nil {
		tr.removeEnd()
		tr.removeEnd = nil
	}
}
