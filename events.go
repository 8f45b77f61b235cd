package scrim

// EventType names a class of events dispatched through the document.
type EventType string

const (
	EventKeyDown       EventType = "keydown"
	EventClick         EventType = "click"
	EventFocusIn       EventType = "focusin"
	EventFocusOut      EventType = "focusout"
	EventTransitionEnd EventType = "transitionend"
)

// KeyCode identifies a key for keydown events.
type KeyCode uint8

const (
	KeyRune KeyCode = iota
	KeyTab
	KeyEnter
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
)

// Key is a pressed key with its modifier state.
type Key struct {
	Code  KeyCode
	Rune  rune
	Shift bool
}

// Event is delivered to listeners during dispatch. Events bubble from the
// target up through its ancestors and finally to document-level listeners.
type Event struct {
	Type   EventType
	Key    Key
	Target *Element

	// Related carries the destination element for focusout events.
	Related *Element

	defaultPrevented bool
	propagationDone  bool
}

// PreventDefault suppresses the document's default action for the event,
// such as moving focus on Tab.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation prevents the event from bubbling further.
func (e *Event) StopPropagation() { e.propagationDone = true }

// Handler receives dispatched events.
type Handler func(*Event)

type listener struct {
	typ     EventType
	handler Handler
	removed bool
}

// EventTarget is anything listeners can attach to: elements and the
// document itself.
type EventTarget interface {
	// On registers a handler and returns its removal function. The removal
	// function is safe to call more than once.
	On(typ EventType, h Handler) (remove func())
}

// On registers a handler on the element.
func (e *Element) On(typ EventType, h Handler) (remove func()) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]*listener)
	}
	l := &listener{typ: typ, handler: h}
	e.listeners[typ] = append(e.listeners[typ], l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		ls := e.listeners[typ]
		for i, cand := range ls {
			if cand == l {
				e.listeners[typ] = append(ls[:i], ls[i+1:]...)
				break
			}
		}
	}
}

func (e *Element) emit(ev *Event) {
	ls := e.listeners[ev.Type]
	if len(ls) == 0 {
		return
	}
	// Copy so handlers that add or remove listeners don't skip entries.
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

// ListenerRegistry is a scope of acquired resources: event listeners plus
// arbitrary release actions. Close runs every release exactly once, in
// reverse acquisition order, so a factory that fails partway through can
// close the registry and release whatever it had acquired so far.
type ListenerRegistry struct {
	releases []func()
	closed   bool
}

// NewListenerRegistry creates an empty registry.
func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{}
}

// Listen registers a handler on target and scopes its removal to the
// registry.
func (r *ListenerRegistry) Listen(target EventTarget, typ EventType, h Handler) {
	if target == nil {
		return
	}
	r.Defer(target.On(typ, h))
}

// Defer scopes an arbitrary release action to the registry.
func (r *ListenerRegistry) Defer(release func()) {
	if release == nil {
		return
	}
	if r.closed {
		// Late registration after teardown: release immediately rather
		// than leak.
		release()
		return
	}
	r.releases = append(r.releases, release)
}

// Close releases everything in reverse order. Subsequent calls are no-ops.
func (r *ListenerRegistry) Close() {
	if r.closed {
		return
	}
	r.closed = true
	for i := len(r.releases) - 1; i >= 0; i-- {
		r.releases[i]()
	}
	r.releases = nil
}

// Closed reports whether the registry has been closed.
func (r *ListenerRegistry) Closed() bool { return r.closed }

// Len returns the number of live release actions.
func (r *ListenerRegistry) Len() int { return len(r.releases) }
