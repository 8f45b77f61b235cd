package scrim

// MutationKind distinguishes document mutation notifications.
type MutationKind uint8

const (
	MutationAttach MutationKind = iota
	MutationDetach
)

// MutationHook observes subtree attachment and detachment. The element is
// the root of the attached or detached subtree.
type MutationHook func(kind MutationKind, el *Element)

// Document is the root of an element tree. It owns the body element, the
// active (focused) element, the viewport size and scroll position, and the
// default keyboard behavior (Tab moves focus between focusable elements).
//
// A document is single-goroutine: all dispatch, focus and mutation calls
// must come from the same goroutine that drives the Scheduler.
type Document struct {
	body    *Element
	active  *Element
	width   int
	height  int
	scrollY int

	listeners map[EventType][]*listener
	hooks     []*mutationHookEntry

	lock  scrollLockState
	traps []*FocusTrap
}

type mutationHookEntry struct {
	hook    MutationHook
	removed bool
}

// NewDocument creates a document with an empty body and the given viewport
// size in cells.
func NewDocument(width, height int) *Document {
	d := &Document{width: width, height: height}
	d.body = NewElement(KindBox)
	d.body.doc = d
	d.active = d.body
	return d
}

// Body returns the document's root element.
func (d *Document) Body() *Element { return d.body }

// Size returns the viewport size in cells.
func (d *Document) Size() (width, height int) { return d.width, d.height }

// SetSize updates the viewport size.
func (d *Document) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// ScrollY returns the vertical scroll offset of the body.
func (d *Document) ScrollY() int { return d.scrollY }

// ScrollTo sets the vertical scroll offset, clamping at zero.
func (d *Document) ScrollTo(y int) {
	if y < 0 {
		y = 0
	}
	d.scrollY = y
}

// Active returns the focused element. It is never nil for a live document;
// when nothing holds focus it is the body.
func (d *Document) Active() *Element { return d.active }

// Focus moves keyboard focus to el. Focusing nil or a detached element
// focuses the body. A focusout event is dispatched on the old element with
// Related set to the new one, then focusin on the new element. If a
// focusout handler re-targets focus (the focus-trap containment case), the
// handler's focus call wins.
func (d *Document) Focus(el *Element) {
	if el == nil || el.doc != d {
		el = d.body
	}
	old := d.active
	if old == el {
		return
	}
	d.active = el
	if old != nil {
		out := &Event{Type: EventFocusOut, Target: old, Related: el}
		d.dispatch(old, out)
		if d.active != el {
			// A focusout handler moved focus elsewhere; honor it.
			return
		}
	}
	in := &Event{Type: EventFocusIn, Target: el}
	d.dispatch(el, in)
}

// On registers a document-level handler, invoked after the bubble phase of
// element listeners.
func (d *Document) On(typ EventType, h Handler) (remove func()) {
	if d.listeners == nil {
		d.listeners = make(map[EventType][]*listener)
	}
	l := &listener{typ: typ, handler: h}
	d.listeners[typ] = append(d.listeners[typ], l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		ls := d.listeners[typ]
		for i, cand := range ls {
			if cand == l {
				d.listeners[typ] = append(ls[:i], ls[i+1:]...)
				break
			}
		}
	}
}

// dispatch bubbles an event from target through its ancestors, then to
// document-level listeners.
func (d *Document) dispatch(target *Element, ev *Event) {
	for n := target; n != nil && !ev.propagationDone; n = n.parent {
		n.emit(ev)
	}
	if ev.propagationDone {
		return
	}
	ls := d.listeners[ev.Type]
	if len(ls) == 0 {
		return
	}
	snapshot := make([]*listener, len(ls))
	copy(snapshot, ls)
	for _, l := range snapshot {
		if ev.propagationDone {
			return
		}
		if l.removed {
			continue
		}
		l.handler(ev)
	}
}

// DispatchKey delivers a keydown to the active element, bubbling upward.
// If no listener prevents the default and the key is Tab, focus moves to
// the next (or previous, with Shift) focusable element in document order,
// wrapping at the ends.
func (d *Document) DispatchKey(k Key) {
	ev := &Event{Type: EventKeyDown, Key: k, Target: d.active}
	d.dispatch(d.active, ev)
	if ev.defaultPrevented || k.Code != KeyTab {
		return
	}
	d.moveFocusDefault(k.Shift)
}

// Click delivers a click to el, bubbling upward. Clicking a focusable
// element also focuses it first, as terminals with mouse support do.
func (d *Document) Click(el *Element) {
	if el == nil || el.doc != d {
		return
	}
	if el.Focusable() {
		d.Focus(el)
	}
	ev := &Event{Type: EventClick, Target: el}
	d.dispatch(el, ev)
}

// DispatchTransitionEnd signals that a style transition on el finished.
// Render loops that actually animate call this; otherwise transitions fall
// back to their duration timer.
func (d *Document) DispatchTransitionEnd(el *Element) {
	if el == nil || el.doc != d {
		return
	}
	ev := &Event{Type: EventTransitionEnd, Target: el}
	d.dispatch(el, ev)
}

// moveFocusDefault implements the document's built-in Tab order.
func (d *Document) moveFocusDefault(backward bool) {
	focusables := collectFocusable(d.body)
	if len(focusables) == 0 {
		return
	}
	cur := -1
	for i, el := range focusables {
		if el == d.active {
			cur = i
			break
		}
	}
	var next int
	if backward {
		if cur <= 0 {
			next = len(focusables) - 1
		} else {
			next = cur - 1
		}
	} else {
		next = (cur + 1) % len(focusables)
	}
	d.Focus(focusables[next])
}

// OnMutation registers a hook observing subtree attach and detach. The
// returned function removes the hook.
func (d *Document) OnMutation(hook MutationHook) (remove func()) {
	entry := &mutationHookEntry{hook: hook}
	d.hooks = append(d.hooks, entry)
	return func() {
		if entry.removed {
			return
		}
		entry.removed = true
		for i, cand := range d.hooks {
			if cand == entry {
				d.hooks = append(d.hooks[:i], d.hooks[i+1:]...)
				break
			}
		}
	}
}

func (d *Document) notifyMutation(kind MutationKind, el *Element) {
	if len(d.hooks) == 0 {
		return
	}
	snapshot := make([]*mutationHookEntry, len(d.hooks))
	copy(snapshot, d.hooks)
	for _, entry := range snapshot {
		if !entry.removed {
			entry.hook(kind, el)
		}
	}
}
