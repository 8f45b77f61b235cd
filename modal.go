package scrim

// NewModal creates a modal dialog overlay: a backdrop is always mounted,
// focus is trapped, and the element is marked aria-modal. Everything else
// follows Options as for NewOverlay.
func NewModal(el *Element, opts Options) *Overlay {
	opts.Backdrop = true
	opts.TrapFocus = true
	prof := dialogProfile()
	prof.ariaModal = true
	return newOverlay(el, opts, prof)
}
