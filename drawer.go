package scrim

import "fmt"

// Side is the screen edge a drawer slides in from.
type Side uint8

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

func (s Side) String() string {
	switch s {
	case SideRight:
		return "right"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return "left"
	}
}

// offscreenTransform is the closed-state transform for each side.
func (s Side) offscreenTransform() string {
	switch s {
	case SideRight:
		return "translateX(100%)"
	case SideTop:
		return "translateY(-100%)"
	case SideBottom:
		return "translateY(100%)"
	default:
		return "translateX(-100%)"
	}
}

// NewDrawer creates a drawer overlay sliding in from the given side. The
// slide uses a spring curve on entry so the panel snaps into position,
// and drawers otherwise share the modal lifecycle: scroll lock, backdrop
// and focus trapping per Options.
func NewDrawer(el *Element, side Side, opts Options) *Overlay {
	prof := profile{
		role:          "dialog",
		lockScroll:    true,
		openAnnounce:  fmt.Sprintf("%s drawer opened", side),
		closeAnnounce: fmt.Sprintf("%s drawer closed", side),
		closedStyles:  []PropValue{{"transform", side.offscreenTransform()}, {"opacity", "0"}},
		openStyles:    []PropValue{{"transform", "none"}, {"opacity", "1"}},
		enterTiming:   TimingSpring,
		exitTiming:    TimingAccelerate,
	}
	d := newOverlay(el, opts, prof)
	if el != nil {
		el.SetAttr("data-side", side.String())
	}
	return d
}
