package scrim

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStyleManager(t *testing.T) {
	t.Run("first write records the restore point", func(t *testing.T) {
		el := NewElement(KindBox)
		el.SetStyleProp("opacity", "0.5")

		m := NewStyleManager()
		m.Set(el, "opacity", "0")
		m.Set(el, "opacity", "1") // later writes do not move the baseline
		m.Restore(el)

		if got := el.StyleProp("opacity"); got != "0.5" {
			t.Fatalf("opacity = %q, want the pre-manager value 0.5", got)
		}
	})

	t.Run("restore removes originally unset properties", func(t *testing.T) {
		el := NewElement(KindBox)
		m := NewStyleManager()
		m.Set(el, "transform", "scale(0.95)")
		m.Restore(el)

		if el.HasStyleProp("transform") {
			t.Fatal("property that was unset before should be removed, not set to empty")
		}
	})

	t.Run("restore is idempotent", func(t *testing.T) {
		el := NewElement(KindBox)
		m := NewStyleManager()
		m.Set(el, "opacity", "0")
		m.Restore(el)

		el.SetStyleProp("opacity", "0.7")
		m.Restore(el) // second restore must not clobber the new value

		if got := el.StyleProp("opacity"); got != "0.7" {
			t.Fatalf("opacity = %q, want 0.7", got)
		}
	})

	t.Run("set many preserves write order", func(t *testing.T) {
		el := NewElement(KindBox)
		m := NewStyleManager()
		m.SetMany(el, []PropValue{{"transform", "none"}, {"transform-origin", "top"}})

		want := []PropValue{{"transform", "none"}, {"transform-origin", "top"}}
		if diff := cmp.Diff(want, el.StyleSnapshot()); diff != "" {
			t.Fatalf("style mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("restore all covers every touched element", func(t *testing.T) {
		a := NewElement(KindBox)
		b := NewElement(KindBox)
		b.SetStyleProp("top", "3")

		m := NewStyleManager()
		m.Set(a, "opacity", "0")
		m.Set(b, "top", "0")
		m.RestoreAll()

		if a.HasStyleProp("opacity") {
			t.Fatal("element a not restored")
		}
		if got := b.StyleProp("top"); got != "3" {
			t.Fatalf("element b top = %q, want 3", got)
		}
	})

	t.Run("clear forgets without writing", func(t *testing.T) {
		el := NewElement(KindBox)
		m := NewStyleManager()
		m.Set(el, "opacity", "0")
		m.Clear(el)
		m.Restore(el)

		if got := el.StyleProp("opacity"); got != "0" {
			t.Fatalf("opacity = %q; cleared record should leave live value alone", got)
		}
		if m.Tracked(el) {
			t.Fatal("cleared element still tracked")
		}
	})

	t.Run("nil element is ignored", func(t *testing.T) {
		m := NewStyleManager()
		m.Set(nil, "opacity", "0")
		m.Restore(nil)
	})
}
