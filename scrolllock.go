package scrim

import "strconv"

// scrollLockState is the per-document scroll lock. The lock is reference
// counted so overlapping overlays compose: only the 0→1 transition
// captures and pins real state, and only the 1→0 transition restores it.
type scrollLockState struct {
	count       int
	savedScroll int
	savedStyle  []PropValue
}

// LockScroll suppresses body scrolling for the document and returns an
// unlock function. The first lock captures the scroll offset and the
// body's full inline style, then pins the body in place; the last unlock
// restores exactly what was captured. Each unlock function is idempotent.
func LockScroll(doc *Document) (unlock func()) {
	if doc == nil {
		return func() {}
	}
	st := &doc.lock
	st.count++
	if st.count == 1 {
		st.savedScroll = doc.ScrollY()
		st.savedStyle = doc.body.StyleSnapshot()
		body := doc.body
		body.SetStyleProp("position", "fixed")
		body.SetStyleProp("top", strconv.Itoa(-st.savedScroll))
		body.SetStyleProp("width", "100%")
		body.SetStyleProp("overflow", "hidden")
	}
	released := false
	return func() {
		if released {
			return
		}
		released = true
		st.count--
		if st.count > 0 {
			return
		}
		doc.body.RestoreStyleSnapshot(st.savedStyle)
		doc.ScrollTo(st.savedScroll)
		st.savedStyle = nil
	}
}

// ScrollLocked reports whether the document's scroll is currently locked.
func ScrollLocked(doc *Document) bool {
	return doc != nil && doc.lock.count > 0
}
