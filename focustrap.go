package scrim

// TrapOptions configures a FocusTrap.
type TrapOptions struct {
	// InitialFocus receives focus on activation. Nil means the first
	// focusable descendant, falling back to the container itself.
	InitialFocus *Element

	// ReturnTo receives focus on deactivation. Nil means whatever was
	// focused when the trap activated.
	ReturnTo *Element

	// OnEscape is invoked when Escape is pressed while the trap is active.
	// The trap never closes anything itself; the owner decides what Escape
	// means.
	OnEscape func()
}

// FocusTrap keeps keyboard focus inside a container while active. Tab and
// Shift+Tab wrap at the ends of the focusable list rather than being
// blocked, and focus that escapes by other means is pulled back by a
// focusout correction.
type FocusTrap struct {
	container *Element
	opts      TrapOptions

	active        bool
	doc           *Document
	focusables    []*Element
	prevFocused   *Element
	addedTabIndex bool
	scope         *ListenerRegistry
}

// NewFocusTrap creates a trap for the container. The trap holds only a
// reference; the caller owns the element.
func NewFocusTrap(container *Element, opts TrapOptions) *FocusTrap {
	return &FocusTrap{container: container, opts: opts}
}

// Active reports whether the trap is engaged.
func (t *FocusTrap) Active() bool { return t.active }

// Focusables returns the current focusable snapshot.
func (t *FocusTrap) Focusables() []*Element {
	out := make([]*Element, len(t.focusables))
	copy(out, t.focusables)
	return out
}

// Activate snapshots the focus return target, computes the focusable set,
// moves focus into the container and begins intercepting keys. Activating
// an active trap is a no-op, as is activating a trap whose container is
// detached.
//
// Traps nest: activating a trap while another is active suspends the
// outer one, so only the innermost trap corrects focus. Deactivating the
// inner trap resumes the outer.
func (t *FocusTrap) Activate() {
	if t.active || t.container == nil {
		return
	}
	doc := t.container.Document()
	if doc == nil {
		return
	}
	t.active = true
	t.doc = doc
	t.prevFocused = doc.Active()
	t.focusables = collectFocusable(t.container)

	if n := len(doc.traps); n > 0 {
		doc.traps[n-1].suspend()
	}
	doc.traps = append(doc.traps, t)

	initial := t.opts.InitialFocus
	switch {
	case initial != nil && t.container.Contains(initial):
		doc.Focus(initial)
	case len(t.focusables) > 0:
		doc.Focus(t.focusables[0])
	default:
		// Nothing focusable inside: focus the container itself so key
		// events still route through the trap.
		if !t.container.Focusable() {
			t.container.SetAttr("tab-index", "-1")
			t.addedTabIndex = true
		}
		doc.Focus(t.container)
	}

	t.resume()
}

// resume installs the trap's listeners.
func (t *FocusTrap) resume() {
	t.scope = NewListenerRegistry()
	t.scope.Listen(t.doc, EventKeyDown, t.handleKey)
	t.scope.Listen(t.container, EventFocusOut, t.handleFocusOut)
}

// suspend removes the trap's listeners without changing its state.
func (t *FocusTrap) suspend() {
	if t.scope != nil {
		t.scope.Close()
		t.scope = nil
	}
}

// Deactivate removes the trap's listeners, drops any tab-index it added to
// the container and returns focus to the recorded target. Deactivating an
// inactive trap is a no-op; the teardown runs exactly once per activation.
func (t *FocusTrap) Deactivate() {
	if !t.active {
		return
	}
	t.active = false
	t.suspend()
	if t.addedTabIndex {
		t.container.RemoveAttr("tab-index")
		t.addedTabIndex = false
	}

	doc := t.doc
	t.doc = nil
	wasTop := false
	for i, cand := range doc.traps {
		if cand == t {
			wasTop = i == len(doc.traps)-1
			doc.traps = append(doc.traps[:i], doc.traps[i+1:]...)
			break
		}
	}

	target := t.opts.ReturnTo
	if target == nil {
		target = t.prevFocused
	}
	t.prevFocused = nil
	t.focusables = nil
	if target != nil && target.Attached() {
		doc.Focus(target)
	} else {
		doc.Focus(nil)
	}

	if wasTop && len(doc.traps) > 0 {
		next := doc.traps[len(doc.traps)-1]
		next.resume()
		// Pull focus back under the resumed trap if the return target
		// left it outside.
		if !next.container.Contains(doc.Active()) {
			next.handleFocusOut(&Event{Type: EventFocusOut, Related: doc.Active()})
		}
	}
}

// UpdateElements re-snapshots the focusable set without changing trap
// state. Owners must call this after mutating the container's subtree in
// a way that adds or removes focusable elements.
func (t *FocusTrap) UpdateElements() {
	if t.container == nil {
		return
	}
	t.focusables = collectFocusable(t.container)
}

func (t *FocusTrap) handleKey(ev *Event) {
	switch ev.Key.Code {
	case KeyEscape:
		if t.opts.OnEscape != nil {
			t.opts.OnEscape()
		}
	case KeyTab:
		t.handleTab(ev)
	}
}

// handleTab applies wraparound correction at the list ends. In between,
// the document's default Tab order runs; it can only land outside the
// container via the focusout correction, which pulls focus back.
func (t *FocusTrap) handleTab(ev *Event) {
	doc := t.container.Document()
	if doc == nil {
		return
	}
	if len(t.focusables) == 0 {
		// No focus destination exists inside the container; swallow Tab
		// entirely so focus cannot escape.
		ev.PreventDefault()
		return
	}
	cur := doc.Active()
	first := t.focusables[0]
	last := t.focusables[len(t.focusables)-1]
	if !ev.Key.Shift && cur == last {
		ev.PreventDefault()
		doc.Focus(first)
	} else if ev.Key.Shift && cur == first {
		ev.PreventDefault()
		doc.Focus(last)
	}
}

// handleFocusOut is the second line of defense: if focus leaves the
// container by any means other than Tab, pull it back in.
func (t *FocusTrap) handleFocusOut(ev *Event) {
	if ev.Related != nil && t.container.Contains(ev.Related) {
		return
	}
	doc := t.container.Document()
	if doc == nil {
		return
	}
	if len(t.focusables) > 0 {
		doc.Focus(t.focusables[0])
	} else {
		doc.Focus(t.container)
	}
}
