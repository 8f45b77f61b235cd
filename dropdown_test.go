package scrim

import (
	"testing"
	"time"
)

// dropdownFixture is a trigger at (10,5) with a three-item menu.
func dropdownFixture(t *testing.T, opts DropdownOptions) (*StepScheduler, *Document, *Dropdown) {
	t.Helper()
	sched := NewStepScheduler()
	if opts.Scheduler == nil {
		opts.Scheduler = sched
	}
	doc := NewDocument(80, 24)
	trigger := NewElement(KindButton).SetID("trigger")
	trigger.SetBounds(Rect{X: 10, Y: 5, W: 8, H: 1})
	doc.Body().Append(trigger)

	menu := NewElement(KindBox)
	for _, id := range []string{"item-0", "item-1", "item-2"} {
		menu.Append(NewElement(KindButton).SetID(id))
	}

	d, err := NewDropdown(trigger, menu, opts)
	if err != nil {
		t.Fatalf("NewDropdown: %v", err)
	}
	return sched, doc, d
}

func TestNewDropdown(t *testing.T) {
	t.Run("requires trigger, menu and items", func(t *testing.T) {
		trigger := NewElement(KindButton)
		empty := NewElement(KindBox)
		if _, err := NewDropdown(nil, empty, DropdownOptions{}); err == nil {
			t.Fatal("nil trigger should fail")
		}
		if _, err := NewDropdown(trigger, nil, DropdownOptions{}); err == nil {
			t.Fatal("nil menu should fail")
		}
		if _, err := NewDropdown(trigger, empty, DropdownOptions{}); err == nil {
			t.Fatal("empty menu should fail")
		}
	})

	t.Run("wires aria relationships", func(t *testing.T) {
		trigger := NewElement(KindButton)
		menu := NewElement(KindBox)
		menu.Append(NewElement(KindButton))
		d, err := NewDropdown(trigger, menu, DropdownOptions{Scheduler: NewStepScheduler()})
		if err != nil {
			t.Fatal(err)
		}

		if menu.Attr("role") != "menu" || menu.ID() == "" {
			t.Fatal("menu should be tagged with a role and an id")
		}
		for _, it := range d.Items() {
			if it.Attr("role") != "menuitem" {
				t.Fatal("items should be tagged menuitem")
			}
		}
		if trigger.Attr("aria-haspopup") != "menu" {
			t.Fatal("trigger should declare its popup")
		}
		if trigger.Attr("aria-controls") != menu.ID() {
			t.Fatal("trigger should reference the menu id")
		}
		if trigger.Attr("aria-expanded") != "false" {
			t.Fatal("trigger should start collapsed")
		}
	})
}

func TestDropdownOpen(t *testing.T) {
	t.Run("mounts and positions the menu below the trigger", func(t *testing.T) {
		_, _, d := dropdownFixture(t, DropdownOptions{})
		d.Open()

		menu := d.Menu()
		if !menu.Attached() {
			t.Fatal("open should attach a detached menu")
		}
		b := menu.Bounds()
		if b.X != 10 || b.Y != 6 {
			t.Fatalf("menu at (%d,%d), want (10,6) below the trigger", b.X, b.Y)
		}
		if menu.Attr("aria-hidden") != "false" {
			t.Fatal("open menu should clear aria-hidden")
		}
	})

	t.Run("clamps to the viewport with one cell of padding", func(t *testing.T) {
		sched := NewStepScheduler()
		doc := NewDocument(40, 10)
		trigger := NewElement(KindButton)
		trigger.SetBounds(Rect{X: 36, Y: 9, W: 4, H: 1})
		doc.Body().Append(trigger)
		menu := NewElement(KindBox)
		menu.SetBounds(Rect{W: 12, H: 5})
		menu.Append(NewElement(KindButton))

		d, err := NewDropdown(trigger, menu, DropdownOptions{Scheduler: sched})
		if err != nil {
			t.Fatal(err)
		}
		d.Open()

		b := menu.Bounds()
		if b.X != 40-12-1 {
			t.Fatalf("menu x = %d, want clamped to %d", b.X, 40-12-1)
		}
		if b.Y != 10-5-1 {
			t.Fatalf("menu y = %d, want clamped to %d", b.Y, 10-5-1)
		}
	})

	t.Run("placement picks the side", func(t *testing.T) {
		sched := NewStepScheduler()
		doc := NewDocument(80, 24)
		trigger := NewElement(KindButton)
		trigger.SetBounds(Rect{X: 10, Y: 12, W: 8, H: 1})
		doc.Body().Append(trigger)
		menu := NewElement(KindBox)
		menu.Append(NewElement(KindButton))

		d, err := NewDropdown(trigger, menu, DropdownOptions{
			Placement: PlacementTop,
			Scheduler: sched,
		})
		if err != nil {
			t.Fatal(err)
		}
		d.Open()

		b := menu.Bounds()
		if b.Y+b.H != 12 {
			t.Fatalf("menu bottom = %d, want stacked on the trigger top at 12", b.Y+b.H)
		}
	})
}

func TestDropdownKeyboard(t *testing.T) {
	t.Run("arrows rove with wraparound", func(t *testing.T) {
		_, doc, d := dropdownFixture(t, DropdownOptions{})
		d.Open()

		doc.DispatchKey(Key{Code: KeyDown})
		if d.FocusedIndex() != 0 {
			t.Fatalf("index = %d, want the first item on the first Down", d.FocusedIndex())
		}
		doc.DispatchKey(Key{Code: KeyDown})
		doc.DispatchKey(Key{Code: KeyDown})
		if d.FocusedIndex() != 2 {
			t.Fatalf("index = %d, want 2", d.FocusedIndex())
		}
		doc.DispatchKey(Key{Code: KeyDown})
		if d.FocusedIndex() != 0 {
			t.Fatal("Down from the last item should wrap to the first")
		}
		doc.DispatchKey(Key{Code: KeyUp})
		if d.FocusedIndex() != 2 {
			t.Fatal("Up from the first item should wrap to the last")
		}

		if doc.Active() != d.Items()[2] {
			t.Fatal("roving focus should move real keyboard focus")
		}
		if d.Items()[2].Attr("data-active") != "true" {
			t.Fatal("focused item should be marked data-active")
		}
		if d.Menu().Attr("aria-activedescendant") != d.Items()[2].ID() {
			t.Fatal("menu should track the active descendant")
		}
	})

	t.Run("first Up lands on the last item", func(t *testing.T) {
		_, doc, d := dropdownFixture(t, DropdownOptions{})
		d.Open()
		doc.DispatchKey(Key{Code: KeyUp})
		if d.FocusedIndex() != 2 {
			t.Fatalf("index = %d, want the last item", d.FocusedIndex())
		}
	})

	t.Run("home and end jump", func(t *testing.T) {
		_, doc, d := dropdownFixture(t, DropdownOptions{})
		d.Open()
		doc.DispatchKey(Key{Code: KeyEnd})
		if d.FocusedIndex() != 2 {
			t.Fatal("End should focus the last item")
		}
		doc.DispatchKey(Key{Code: KeyHome})
		if d.FocusedIndex() != 0 {
			t.Fatal("Home should focus the first item")
		}
	})

	t.Run("enter selects the focused item and closes", func(t *testing.T) {
		var gotIndex = -1
		var gotItem *Element
		sched, doc, d := dropdownFixture(t, DropdownOptions{
			OnSelect: func(i int, item *Element) { gotIndex, gotItem = i, item },
		})
		d.Open()

		doc.DispatchKey(Key{Code: KeyDown})
		doc.DispatchKey(Key{Code: KeyDown})
		doc.DispatchKey(Key{Code: KeyEnter})

		if gotIndex != 1 || gotItem != d.Items()[1] {
			t.Fatalf("selected (%d, %v), want item 1", gotIndex, gotItem)
		}
		if d.IsOpen() {
			t.Fatal("selection should close the menu")
		}
		sched.Advance(time.Second)
		if d.Menu().Attr("aria-hidden") != "true" {
			t.Fatal("closed menu should be aria-hidden")
		}
	})

	t.Run("escape and tab close", func(t *testing.T) {
		for _, code := range []KeyCode{KeyEscape, KeyTab} {
			_, doc, d := dropdownFixture(t, DropdownOptions{})
			d.Open()
			doc.DispatchKey(Key{Code: code})
			if d.IsOpen() {
				t.Fatalf("key %d should close the menu", code)
			}
		}
	})
}

func TestDropdownUpdate(t *testing.T) {
	t.Run("clamps the roving index after items shrink", func(t *testing.T) {
		_, doc, d := dropdownFixture(t, DropdownOptions{})
		d.Open()
		doc.DispatchKey(Key{Code: KeyEnd})

		d.Menu().Children()[2].Detach()
		d.Update()
		if d.FocusedIndex() != 1 {
			t.Fatalf("index = %d, want clamped to the new last item", d.FocusedIndex())
		}
	})

	t.Run("items added while open select by click", func(t *testing.T) {
		var gotIndex = -1
		var gotItem *Element
		_, doc, d := dropdownFixture(t, DropdownOptions{
			OnSelect: func(i int, item *Element) { gotIndex, gotItem = i, item },
		})
		d.Open()

		added := NewElement(KindButton).SetID("item-3")
		added.SetAttr("role", "menuitem")
		d.Menu().Append(added)
		d.Update()

		doc.Click(added)
		if gotIndex != 3 || gotItem != added {
			t.Fatalf("selected (%d, %v), want the added item at index 3", gotIndex, gotItem)
		}
		if d.IsOpen() {
			t.Fatal("selection should close the menu")
		}
	})
}

func TestDropdownClose(t *testing.T) {
	t.Run("returns focus to the trigger", func(t *testing.T) {
		sched, doc, d := dropdownFixture(t, DropdownOptions{})
		d.Open()
		doc.DispatchKey(Key{Code: KeyDown})

		d.Close()
		if doc.Active().ID() != "trigger" {
			t.Fatalf("active = %v, want the trigger", doc.Active().ID())
		}
		if d.FocusedIndex() != -1 {
			t.Fatal("roving index should reset")
		}

		sched.Advance(time.Second)
		if d.Menu().Attached() {
			t.Fatal("menu attached by Open should detach on cleanup")
		}
	})

	t.Run("outside click closes, inside does not", func(t *testing.T) {
		_, doc, d := dropdownFixture(t, DropdownOptions{})
		outside := NewElement(KindButton).SetID("outside")
		doc.Body().Append(outside)
		d.Open()

		doc.Click(d.Items()[0]) // selects, which also closes
		if d.IsOpen() {
			t.Fatal("item click should close via selection")
		}

		d.Open()
		doc.Click(outside)
		if d.IsOpen() {
			t.Fatal("outside click should close")
		}
	})

	t.Run("reopen during the close tail settles the old cycle", func(t *testing.T) {
		sched, _, d := dropdownFixture(t, DropdownOptions{})
		d.Open()
		d.Close()
		d.Open()

		sched.Advance(time.Second)
		if !d.IsOpen() {
			t.Fatal("stale close cleanup undid the re-open")
		}
		if !d.Menu().Attached() {
			t.Fatal("menu should stay mounted for the new cycle")
		}
	})

	t.Run("destroy releases synchronously", func(t *testing.T) {
		_, doc, d := dropdownFixture(t, DropdownOptions{})
		d.Open()
		d.Destroy()

		if d.Menu().Attr("aria-hidden") != "true" {
			t.Fatal("destroyed menu should be aria-hidden")
		}
		d.Open()
		if d.IsOpen() {
			t.Fatal("destroyed dropdown should refuse to open")
		}
		_ = doc
	})
}
