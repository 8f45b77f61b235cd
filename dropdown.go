package scrim

import (
	"errors"
	"fmt"
)

// Placement positions a dropdown menu relative to its trigger.
type Placement uint8

const (
	PlacementBottom Placement = iota
	PlacementTop
	PlacementLeft
	PlacementRight
)

func (p Placement) String() string {
	switch p {
	case PlacementTop:
		return "top"
	case PlacementLeft:
		return "left"
	case PlacementRight:
		return "right"
	default:
		return "bottom"
	}
}

// placementPad keeps menus off the viewport edge, one cell on every side.
const placementPad = 1

// DropdownOptions configures a Dropdown.
type DropdownOptions struct {
	// Placement picks which side of the trigger the menu opens on.
	Placement Placement

	// Animation selects the transition duration preset.
	Animation Speed

	// OnSelect runs when a menu item is chosen by Enter or click.
	OnSelect func(index int, item *Element)

	// OnOpen and OnClose mirror the overlay callbacks.
	OnOpen  func()
	OnClose func()

	// Scheduler drives animation tails. Nil selects a real-timer
	// scheduler.
	Scheduler Scheduler
}

// Dropdown is a non-modal overlay anchored to a trigger element: no
// scroll lock, no backdrop, and its own roving focus index over the menu
// items instead of a FocusTrap, because menu navigation needs first-class
// arrow-key semantics a trap does not provide.
type Dropdown struct {
	trigger *Element
	menu    *Element
	items   []*Element
	opts    DropdownOptions
	sched   Scheduler

	open      bool
	destroyed bool
	focused   int

	styles    *StyleManager
	cycle     *ListenerRegistry
	itemScope *ListenerRegistry
	enter     *Transition
	exit      *Transition
	closeDone chan struct{}
}

var dropdownSeq int

// NewDropdown creates a dropdown binding a trigger to a menu. The menu's
// items are its descendants marked role="menuitem", falling back to any
// interactive descendants. Construction fails on a nil trigger or menu
// and on a menu with no items: those are configuration mistakes, not
// runtime conditions.
func NewDropdown(trigger, menu *Element, opts DropdownOptions) (*Dropdown, error) {
	if trigger == nil || menu == nil {
		return nil, errors.New("dropdown: trigger and menu are required")
	}
	items := menuItems(menu)
	if len(items) == 0 {
		return nil, errors.New("dropdown: menu has no items")
	}
	d := &Dropdown{
		trigger: trigger,
		menu:    menu,
		items:   items,
		opts:    opts,
		sched:   opts.Scheduler,
		styles:  NewStyleManager(),
		focused: -1,
	}
	if d.sched == nil {
		d.sched = NewTimerScheduler()
	}

	if menu.ID() == "" {
		dropdownSeq++
		menu.SetID(fmt.Sprintf("scrim-menu-%d", dropdownSeq))
	}
	menu.SetAttr("role", "menu")
	menu.SetAttr("aria-hidden", "true")
	for _, it := range items {
		if !it.HasAttr("role") {
			it.SetAttr("role", "menuitem")
		}
	}
	trigger.SetAttr("aria-haspopup", "menu")
	trigger.SetAttr("aria-expanded", "false")
	trigger.SetAttr("aria-controls", menu.ID())
	return d, nil
}

// IsOpen reports whether the menu is showing. As with Overlay, the state
// flips at the start of each transition.
func (d *Dropdown) IsOpen() bool { return d.open }

// Menu returns the menu element.
func (d *Dropdown) Menu() *Element { return d.menu }

// Items returns the menu items in document order.
func (d *Dropdown) Items() []*Element {
	out := make([]*Element, len(d.items))
	copy(out, d.items)
	return out
}

// FocusedIndex returns the roving focus index, or -1 when no item holds
// focus.
func (d *Dropdown) FocusedIndex() int { return d.focused }

// Open shows the menu next to the trigger. The menu is attached to the
// document body if it is not already in the tree, positioned on the
// configured side of the trigger and clamped to the viewport with one
// cell of padding.
func (d *Dropdown) Open() {
	if d.destroyed || d.open {
		return
	}
	d.settlePendingClose()
	doc := d.trigger.Document()
	if doc == nil {
		warnf("dropdown: Open with detached trigger, ignoring")
		return
	}

	d.open = true
	d.focused = -1
	d.cycle = NewListenerRegistry()

	if !d.menu.Attached() {
		doc.Body().Append(d.menu)
		d.cycle.Defer(d.menu.Detach)
	}
	d.position(doc)

	d.trigger.SetAttr("aria-expanded", "true")
	d.menu.SetAttr("aria-hidden", "false")

	d.cycle.Listen(doc, EventClick, func(ev *Event) {
		if d.trigger.Contains(ev.Target) || d.menu.Contains(ev.Target) {
			return
		}
		d.Close()
	})
	d.cycle.Listen(doc, EventKeyDown, d.handleKey)
	d.wireItems()

	d.enter = StartTransition(d.sched, d.menu, d.styles,
		[]PropValue{{"opacity", "0"}, {"transform", "scale(0.95)"}},
		[]PropValue{{"opacity", "1"}, {"transform", "none"}},
		d.opts.Animation.Interval(), TimingDecelerate, nil)

	if d.opts.OnOpen != nil {
		d.opts.OnOpen()
	}
}

// Close hides the menu and returns focus to the trigger when an item held
// it. The returned channel closes when the exit animation's cleanup has
// run.
func (d *Dropdown) Close() <-chan struct{} {
	if d.destroyed || !d.open {
		return closedChan
	}
	d.open = false

	if d.enter != nil {
		d.enter.Cancel()
		d.enter = nil
	}

	doc := d.trigger.Document()
	if doc != nil && d.menu.Contains(doc.Active()) {
		doc.Focus(d.trigger)
	}
	d.focused = -1
	d.menu.RemoveAttr("aria-activedescendant")

	done := make(chan struct{})
	d.closeDone = done
	d.exit = StartTransition(d.sched, d.menu, d.styles,
		[]PropValue{{"opacity", "1"}, {"transform", "none"}},
		[]PropValue{{"opacity", "0"}, {"transform", "scale(0.95)"}},
		d.opts.Animation.Interval(), TimingAccelerate,
		func() { d.finishClose(true) })
	return done
}

// Toggle opens a closed dropdown and closes an open one.
func (d *Dropdown) Toggle() {
	if d.open {
		d.Close()
	} else {
		d.Open()
	}
}

// Update re-scans the menu for items after external mutation. On an open
// dropdown the item click listeners are rebuilt so new items select by
// click as well as by keyboard.
func (d *Dropdown) Update() {
	d.items = menuItems(d.menu)
	if d.focused >= len(d.items) {
		d.focused = len(d.items) - 1
	}
	if d.open {
		d.wireItems()
	}
}

// Destroy releases everything synchronously, without exit animation.
func (d *Dropdown) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	if d.exit != nil && !d.exit.Finished() {
		d.exit.Cancel()
		d.finishClose(false)
	}
	if d.open {
		d.open = false
		d.teardownCycle()
		d.trigger.SetAttr("aria-expanded", "false")
		d.menu.SetAttr("aria-hidden", "true")
	}
	if d.enter != nil {
		d.enter.Cancel()
		d.enter = nil
	}
	if d.menu.Attached() {
		d.styles.RestoreAll()
	} else {
		d.styles.Clear(nil)
	}
}

func (d *Dropdown) settlePendingClose() {
	if d.exit == nil {
		return
	}
	if !d.exit.Finished() {
		d.exit.Cancel()
		d.finishClose(true)
	}
	d.exit = nil
}

func (d *Dropdown) finishClose(notify bool) {
	d.trigger.SetAttr("aria-expanded", "false")
	d.menu.SetAttr("aria-hidden", "true")
	d.teardownCycle()
	d.exit = nil
	if notify && d.opts.OnClose != nil {
		d.opts.OnClose()
	}
	if d.closeDone != nil {
		close(d.closeDone)
		d.closeDone = nil
	}
}

func (d *Dropdown) teardownCycle() {
	if d.itemScope != nil {
		d.itemScope.Close()
		d.itemScope = nil
	}
	if d.cycle != nil {
		d.cycle.Close()
		d.cycle = nil
	}
}

// wireItems attaches a click-to-select listener to every current item,
// replacing any listeners from a previous scan.
func (d *Dropdown) wireItems() {
	if d.itemScope != nil {
		d.itemScope.Close()
	}
	d.itemScope = NewListenerRegistry()
	for i, it := range d.items {
		index := i
		item := it
		d.itemScope.Listen(item, EventClick, func(*Event) {
			d.selectItem(index, item)
		})
	}
}

func (d *Dropdown) handleKey(ev *Event) {
	switch ev.Key.Code {
	case KeyDown:
		ev.PreventDefault()
		d.moveFocus(1)
	case KeyUp:
		ev.PreventDefault()
		d.moveFocus(-1)
	case KeyHome:
		ev.PreventDefault()
		d.focusIndex(0)
	case KeyEnd:
		ev.PreventDefault()
		d.focusIndex(len(d.items) - 1)
	case KeyEnter:
		if d.focused >= 0 && d.focused < len(d.items) {
			ev.PreventDefault()
			d.selectItem(d.focused, d.items[d.focused])
		}
	case KeyEscape:
		d.Close()
	case KeyTab:
		// Tab leaves the menu; close and let the document's normal focus
		// order take over.
		d.Close()
	}
}

// moveFocus advances the roving focus index with wraparound. With no item
// focused, the first move lands on index 0 going down and the last item
// going up.
func (d *Dropdown) moveFocus(delta int) {
	if len(d.items) == 0 {
		return
	}
	next := d.focused + delta
	if d.focused < 0 {
		if delta > 0 {
			next = 0
		} else {
			next = len(d.items) - 1
		}
	}
	next = (next + len(d.items)) % len(d.items)
	d.focusIndex(next)
}

func (d *Dropdown) focusIndex(i int) {
	if i < 0 || i >= len(d.items) {
		return
	}
	if d.focused >= 0 && d.focused < len(d.items) {
		d.items[d.focused].RemoveAttr("data-active")
	}
	d.focused = i
	item := d.items[i]
	item.SetAttr("data-active", "true")
	if item.ID() != "" {
		d.menu.SetAttr("aria-activedescendant", item.ID())
	}
	if doc := d.menu.Document(); doc != nil && item.Focusable() {
		doc.Focus(item)
	}
}

func (d *Dropdown) selectItem(index int, item *Element) {
	if d.opts.OnSelect != nil {
		d.opts.OnSelect(index, item)
	}
	d.Close()
}

// position computes the menu's bounds next to the trigger, clamped to the
// viewport with placementPad cells of margin.
func (d *Dropdown) position(doc *Document) {
	vw, vh := doc.Size()
	t := d.trigger.Bounds()
	m := d.menu.Bounds()
	mw, mh := m.W, m.H
	if mw == 0 {
		mw = t.W
	}
	if mh == 0 {
		mh = len(d.items) + 2 // items plus a border row top and bottom
	}

	var x, y int
	switch d.opts.Placement {
	case PlacementTop:
		x, y = t.X, t.Y-mh
	case PlacementLeft:
		x, y = t.X-mw, t.Y
	case PlacementRight:
		x, y = t.X+t.W, t.Y
	default: // bottom
		x, y = t.X, t.Y+t.H
	}

	x = clamp(x, placementPad, vw-mw-placementPad)
	y = clamp(y, placementPad, vh-mh-placementPad)
	d.menu.SetBounds(Rect{X: x, Y: y, W: mw, H: mh})
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// menuItems collects the menu's items: descendants tagged role=menuitem,
// falling back to interactive descendants when none are tagged.
func menuItems(menu *Element) []*Element {
	var tagged, interactive []*Element
	menu.Walk(func(el *Element) bool {
		if el == menu {
			return true
		}
		if el.Attr("role") == "menuitem" {
			tagged = append(tagged, el)
		} else if el.Kind().interactive() {
			interactive = append(interactive, el)
		}
		return true
	})
	if len(tagged) > 0 {
		return tagged
	}
	return interactive
}
