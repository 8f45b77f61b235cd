package scrim

import "time"

// Options configures an overlay's behavior. The zero value is a plain
// dialog with the default 250ms animation, no backdrop and no focus trap.
type Options struct {
	// Backdrop mounts a full-viewport element behind the overlay for the
	// duration of each open cycle.
	Backdrop bool

	// CloseOnBackdrop closes the overlay when the backdrop itself is
	// clicked. Clicks that merely bubble through from descendants of
	// other layers do not count; the click target must be the backdrop.
	CloseOnBackdrop bool

	// CloseOnEscape closes the overlay on Escape. When a focus trap is
	// installed, Escape is routed through the trap's callback instead of
	// a second document listener, so it fires exactly once.
	CloseOnEscape bool

	// TrapFocus activates a FocusTrap on the overlay element shortly
	// after it opens.
	TrapFocus bool

	// Animation selects the transition duration preset.
	Animation Speed

	// BackdropBlur marks the backdrop as blurring, for renderers that
	// support it.
	BackdropBlur bool

	// Label, LabelledBy and DescribedBy set the corresponding aria
	// attributes on the overlay element at construction.
	Label       string
	LabelledBy  string
	DescribedBy string

	// InitialFocus overrides where focus lands when the trap activates.
	InitialFocus *Element

	// ReturnFocus overrides where focus returns when the overlay closes.
	// Nil returns focus to whatever was focused at open time.
	ReturnFocus *Element

	// OnOpen runs at the end of a successful Open.
	OnOpen func()

	// OnClose runs when a close cycle's cleanup completes.
	OnClose func()

	// Scheduler drives animation tails and deferred focus. Nil selects a
	// real-timer scheduler.
	Scheduler Scheduler
}

// profile is the per-variant shape of an overlay: which resources the
// lifecycle acquires and how the element transitions between states.
type profile struct {
	role          string
	ariaModal     bool
	lockScroll    bool
	openAnnounce  string
	closeAnnounce string
	closedStyles  []PropValue
	openStyles    []PropValue
	enterTiming   string
	exitTiming    string
}

func dialogProfile() profile {
	return profile{
		role:          "dialog",
		lockScroll:    true,
		openAnnounce:  "Dialog opened",
		closeAnnounce: "Dialog closed",
		closedStyles:  []PropValue{{"opacity", "0"}, {"transform", "scale(0.95)"}},
		openStyles:    []PropValue{{"opacity", "1"}, {"transform", "none"}},
		enterTiming:   TimingDecelerate,
		exitTiming:    TimingAccelerate,
	}
}

// focusDelay is the fixed delay between an overlay starting its enter
// transition and its focus trap activating. Focus moves instantly; only
// the visual transition is deferred, so waiting for the animation to end
// would just delay keyboard users.
const focusDelay = 50 * time.Millisecond

// Overlay is a component that occupies a layer above page content and
// manages its own open/closed lifecycle: scroll lock, backdrop, aria
// state, enter/exit transitions, focus trapping and listener teardown.
//
// The overlay holds a reference to its element but does not own the
// element's lifetime; Destroy releases everything the overlay acquired
// and leaves the element where the caller put it.
type Overlay struct {
	el    *Element
	opts  Options
	prof  profile
	sched Scheduler

	open      bool
	destroyed bool
	inert     bool

	styles   *StyleManager
	trap     *FocusTrap
	backdrop *Element
	cycle    *ListenerRegistry
	unlock   func()

	enter     *Transition
	exit      *Transition
	closeDone chan struct{}
}

// NewOverlay creates a dialog overlay bound to el. A nil element yields an
// inert overlay whose operations are all no-ops, so the same construction
// code can run in non-interactive environments.
func NewOverlay(el *Element, opts Options) *Overlay {
	return newOverlay(el, opts, dialogProfile())
}

func newOverlay(el *Element, opts Options, prof profile) *Overlay {
	o := &Overlay{
		el:     el,
		opts:   opts,
		prof:   prof,
		sched:  opts.Scheduler,
		styles: NewStyleManager(),
	}
	if o.sched == nil {
		o.sched = NewTimerScheduler()
	}
	if el == nil {
		o.inert = true
		return o
	}
	el.SetAttr("role", prof.role)
	el.SetAttr("aria-hidden", "true")
	if prof.ariaModal {
		el.SetAttr("aria-modal", "true")
	}
	if opts.Label != "" {
		el.SetAttr("aria-label", opts.Label)
	}
	if opts.LabelledBy != "" {
		el.SetAttr("aria-labelledby", opts.LabelledBy)
	}
	if opts.DescribedBy != "" {
		el.SetAttr("aria-describedby", opts.DescribedBy)
	}
	if opts.TrapFocus {
		trapOpts := TrapOptions{
			InitialFocus: opts.InitialFocus,
			ReturnTo:     opts.ReturnFocus,
		}
		if opts.CloseOnEscape {
			trapOpts.OnEscape = func() { o.Close() }
		}
		o.trap = NewFocusTrap(el, trapOpts)
	}
	return o
}

// IsOpen reports the overlay's state. The state flips at the start of
// each transition: an overlay whose close animation is still running
// reports false.
func (o *Overlay) IsOpen() bool { return o.open }

// Element returns the overlay's bound element.
func (o *Overlay) Element() *Element { return o.el }

// Backdrop returns the live backdrop element, or nil when closed or the
// backdrop is disabled.
func (o *Overlay) Backdrop() *Element { return o.backdrop }

// Open transitions the overlay to its open state. Opening an overlay that
// is already open, destroyed or inert is a no-op; the OnOpen callback is
// not re-invoked. Calling Open while a previous close's animation tail is
// still pending finishes that cleanup synchronously first, so a stale
// teardown timer can never undo the re-open.
func (o *Overlay) Open() {
	if o.inert || o.destroyed || o.open {
		return
	}
	o.settlePendingClose()
	doc := o.el.Document()
	if doc == nil {
		warnf("overlay: Open on detached element, ignoring")
		return
	}

	o.open = true
	o.cycle = NewListenerRegistry()

	if o.prof.lockScroll {
		o.unlock = LockScroll(doc)
	}

	if o.opts.Backdrop {
		o.backdrop = o.newBackdrop(doc)
		doc.Body().Append(o.backdrop)
		if o.opts.CloseOnBackdrop {
			o.cycle.Listen(o.backdrop, EventClick, func(ev *Event) {
				if ev.Target == o.backdrop {
					o.Close()
				}
			})
		}
	}

	o.el.SetAttr("aria-hidden", "false")

	// Escape handling: the trap owns Escape when installed; otherwise a
	// document-level listener fills in. Never both.
	if o.opts.CloseOnEscape && o.trap == nil {
		o.cycle.Listen(doc, EventKeyDown, func(ev *Event) {
			if ev.Key.Code == KeyEscape {
				o.Close()
			}
		})
	}

	o.enter = StartTransition(o.sched, o.el, o.styles,
		o.prof.closedStyles, o.prof.openStyles,
		o.opts.Animation.Interval(), o.prof.enterTiming, nil)

	if o.trap != nil {
		// The open check covers a Close that lands inside the delay
		// window; the timer must not activate a trap on a closing overlay.
		cancel := o.sched.AfterFunc(focusDelay, func() {
			if o.open {
				o.trap.Activate()
			}
		})
		o.cycle.Defer(cancel)
	}

	Announce(doc, o.sched, o.prof.openAnnounce)
	if o.opts.OnOpen != nil {
		o.opts.OnOpen()
	}
}

// Close transitions the overlay to its closed state and returns a channel
// that closes when the exit animation's cleanup has run. The state flips
// immediately; the animation tail only performs cleanup. Closing an
// overlay that is not open returns an already-closed channel.
func (o *Overlay) Close() <-chan struct{} {
	if o.inert || o.destroyed || !o.open {
		return closedChan
	}
	o.open = false

	if o.enter != nil {
		o.enter.Cancel()
		o.enter = nil
	}

	// Focus returns before anything is hidden so the user never sees
	// focus stranded inside a disappearing container.
	if o.trap != nil {
		o.trap.Deactivate()
	}

	done := make(chan struct{})
	o.closeDone = done
	o.exit = StartTransition(o.sched, o.el, o.styles,
		o.prof.openStyles, o.prof.closedStyles,
		o.opts.Animation.Interval(), o.prof.exitTiming,
		func() { o.finishClose(true) })
	return done
}

// Toggle opens a closed overlay and closes an open one.
func (o *Overlay) Toggle() {
	if o.open {
		o.Close()
	} else {
		o.Open()
	}
}

// Update re-snapshots the focus trap's focusable set. Call it after
// mutating the overlay's subtree while open, for example when async
// content lands inside an open dialog.
func (o *Overlay) Update() {
	if o.trap != nil {
		o.trap.UpdateElements()
	}
}

// Destroy releases every resource the overlay holds, synchronously and
// without exit animations, from any state. The overlay is unusable
// afterwards. The element's inline styles are restored to their pre-open
// values when it is still attached, or simply forgotten when it has
// already left the document.
func (o *Overlay) Destroy() {
	if o.inert || o.destroyed {
		return
	}
	o.destroyed = true

	if o.exit != nil && !o.exit.Finished() {
		o.exit.Cancel()
		o.finishClose(false)
	}
	if o.open {
		if o.trap != nil {
			o.trap.Deactivate()
		}
		o.open = false
		o.el.SetAttr("aria-hidden", "true")
		o.teardownCycle()
	}
	if o.enter != nil {
		o.enter.Cancel()
		o.enter = nil
	}
	if o.el.Attached() {
		o.styles.RestoreAll()
	} else {
		o.styles.Clear(nil)
	}
}

// settlePendingClose finishes an in-flight close cycle synchronously so a
// re-open starts from fully released state.
func (o *Overlay) settlePendingClose() {
	if o.exit == nil {
		return
	}
	if !o.exit.Finished() {
		o.exit.Cancel()
		o.finishClose(true)
	}
	o.exit = nil
}

func (o *Overlay) finishClose(notify bool) {
	o.el.SetAttr("aria-hidden", "true")
	o.teardownCycle()
	o.exit = nil
	if notify {
		Announce(o.el.Document(), o.sched, o.prof.closeAnnounce)
		if o.opts.OnClose != nil {
			o.opts.OnClose()
		}
	}
	if o.closeDone != nil {
		close(o.closeDone)
		o.closeDone = nil
	}
}

// teardownCycle releases everything acquired by the current open cycle:
// the backdrop, the cycle's listeners and the scroll lock, in that order.
func (o *Overlay) teardownCycle() {
	if o.backdrop != nil {
		o.backdrop.Detach()
		o.backdrop = nil
	}
	if o.cycle != nil {
		o.cycle.Close()
		o.cycle = nil
	}
	if o.unlock != nil {
		o.unlock()
		o.unlock = nil
	}
}

func (o *Overlay) newBackdrop(doc *Document) *Element {
	b := NewElement(KindBox)
	b.SetAttr("data-scrim", "backdrop")
	b.SetStyleProp("position", "fixed")
	b.SetStyleProp("inset", "0")
	if o.opts.BackdropBlur {
		b.SetStyleProp("backdrop-filter", "blur")
	}
	w, h := doc.Size()
	b.SetBounds(Rect{X: 0, Y: 0, W: w, H: h})
	return b
}

// closedChan is returned by Close when there is nothing to wait for.
var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()
