package scrim

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestElementTree(t *testing.T) {
	t.Run("append sets parent and document", func(t *testing.T) {
		doc := NewDocument(80, 24)
		box := NewElement(KindBox)
		btn := NewElement(KindButton)
		box.Append(btn)

		if btn.Attached() {
			t.Fatal("detached subtree should not report attached")
		}
		doc.Body().Append(box)
		if !btn.Attached() {
			t.Fatal("attaching the parent should attach descendants")
		}
		if btn.Document() != doc {
			t.Fatal("descendant document not propagated")
		}
		if btn.Parent() != box {
			t.Fatal("parent not set")
		}
	})

	t.Run("append reparents", func(t *testing.T) {
		a := NewElement(KindBox)
		b := NewElement(KindBox)
		c := NewElement(KindText)
		a.Append(c)
		b.Append(c)

		if len(a.Children()) != 0 {
			t.Fatal("old parent still holds the child")
		}
		if c.Parent() != b {
			t.Fatal("child not reparented")
		}
	})

	t.Run("remove focused falls back to body", func(t *testing.T) {
		doc := NewDocument(80, 24)
		btn := NewElement(KindButton)
		doc.Body().Append(btn)
		doc.Focus(btn)

		btn.Detach()
		if doc.Active() != doc.Body() {
			t.Fatalf("focus should fall back to body, got %v", doc.Active().Kind())
		}
	})

	t.Run("contains", func(t *testing.T) {
		a := NewElement(KindBox)
		b := NewElement(KindBox)
		c := NewElement(KindButton)
		a.Append(b)
		b.Append(c)

		if !a.Contains(c) {
			t.Fatal("ancestor should contain descendant")
		}
		if !a.Contains(a) {
			t.Fatal("element should contain itself")
		}
		if c.Contains(a) {
			t.Fatal("descendant should not contain ancestor")
		}
	})
}

func TestRendered(t *testing.T) {
	doc := NewDocument(80, 24)
	box := NewElement(KindBox)
	btn := NewElement(KindButton)
	box.Append(btn)
	doc.Body().Append(box)

	if !btn.Rendered() {
		t.Fatal("attached visible element should be rendered")
	}

	box.SetHidden(true)
	if btn.Rendered() {
		t.Fatal("hidden ancestor should make descendants unrendered")
	}

	box.SetHidden(false)
	box.Detach()
	if btn.Rendered() {
		t.Fatal("detached element should not be rendered")
	}
}

func TestFocusable(t *testing.T) {
	doc := NewDocument(80, 24)

	tests := []struct {
		name string
		el   *Element
		want bool
	}{
		{"button", NewElement(KindButton), true},
		{"input", NewElement(KindInput), true},
		{"link", NewElement(KindLink), true},
		{"box", NewElement(KindBox), false},
		{"text", NewElement(KindText), false},
		{"box with tab-index", NewElement(KindBox).SetAttr("tab-index", "0"), true},
		{"box with negative tab-index", NewElement(KindBox).SetAttr("tab-index", "-1"), false},
		{"hidden button", NewElement(KindButton).SetHidden(true), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc.Body().Append(tt.el)
			if got := tt.el.Focusable(); got != tt.want {
				t.Fatalf("Focusable() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("detached button", func(t *testing.T) {
		if NewElement(KindButton).Focusable() {
			t.Fatal("detached element should not be focusable")
		}
	})
}

func TestCollectFocusable(t *testing.T) {
	doc := NewDocument(80, 24)
	dialog := NewElement(KindBox)
	first := NewElement(KindButton).SetID("first")
	inner := NewElement(KindBox)
	second := NewElement(KindInput).SetID("second")
	third := NewElement(KindLink).SetID("third")
	hidden := NewElement(KindButton).SetHidden(true)
	inner.Append(second)
	dialog.Append(first, inner, third, hidden)
	doc.Body().Append(dialog)

	var ids []string
	for _, el := range collectFocusable(dialog) {
		ids = append(ids, el.ID())
	}
	want := []string{"first", "second", "third"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("focusable order mismatch (-want +got):\n%s", diff)
	}
}

func TestStyleSnapshot(t *testing.T) {
	el := NewElement(KindBox)
	el.SetStyleProp("transform", "none")
	el.SetStyleProp("opacity", "1")
	el.SetStyleProp("transform", "scale(2)") // update keeps first-set order

	snap := el.StyleSnapshot()
	want := []PropValue{{"transform", "scale(2)"}, {"opacity", "1"}}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	el.SetStyleProp("position", "fixed")
	el.RestoreStyleSnapshot(snap)
	if el.HasStyleProp("position") {
		t.Fatal("restore should drop properties not in the snapshot")
	}
	if diff := cmp.Diff(want, el.StyleSnapshot()); diff != "" {
		t.Fatalf("restored style mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveStyleProp(t *testing.T) {
	el := NewElement(KindBox)
	el.SetStyleProp("a", "1")
	el.SetStyleProp("b", "2")
	el.RemoveStyleProp("a")
	el.RemoveStyleProp("missing") // no-op

	want := []PropValue{{"b", "2"}}
	if diff := cmp.Diff(want, el.StyleSnapshot()); diff != "" {
		t.Fatalf("style mismatch (-want +got):\n%s", diff)
	}
}
