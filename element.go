package scrim

import "fmt"

// Kind identifies what an element is. Interactive kinds participate in
// keyboard focus; KindBox and KindText are inert containers and labels.
type Kind uint8

const (
	KindBox Kind = iota
	KindText
	KindButton
	KindLink
	KindInput
	KindSelect
	KindTextArea
)

var kindNames = [...]string{"box", "text", "button", "link", "input", "select", "textarea"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// interactive reports whether the kind receives focus by default.
func (k Kind) interactive() bool {
	switch k {
	case KindButton, KindLink, KindInput, KindSelect, KindTextArea:
		return true
	}
	return false
}

// Rect is a cell-based bounding box. Overlay placement works in screen
// cells; components that need positioning (dropdown menus, drawers) read
// the bounds their owner assigned.
type Rect struct {
	X, Y, W, H int
}

// PropValue is one inline style property. Style snapshots and multi-property
// writes use ordered slices rather than maps so write order is preserved
// for properties that interact (transform before transform-origin).
type PropValue struct {
	Prop  string
	Value string
}

// Element is a node in a document tree. Elements carry string attributes
// (including aria-*), insertion-ordered inline style properties, and an
// optional bounding box. The caller owns the element; scrim components
// mutate style, id and aria-* attributes but never free the node.
type Element struct {
	kind     Kind
	id       string
	text     string
	hidden   bool
	bounds   Rect
	doc      *Document
	parent   *Element
	children []*Element

	attrs      map[string]string
	styleVals  map[string]string
	styleOrder []string

	listeners map[EventType][]*listener
}

// NewElement creates a detached element of the given kind.
func NewElement(kind Kind) *Element {
	return &Element{kind: kind}
}

// Kind returns the element's kind.
func (e *Element) Kind() Kind { return e.kind }

// ID returns the element id, possibly empty.
func (e *Element) ID() string { return e.id }

// SetID sets the element id.
func (e *Element) SetID(id string) *Element {
	e.id = id
	return e
}

// Text returns the element's text content.
func (e *Element) Text() string { return e.text }

// SetText sets the element's text content.
func (e *Element) SetText(s string) *Element {
	e.text = s
	return e
}

// Hidden reports whether the element itself is hidden.
func (e *Element) Hidden() bool { return e.hidden }

// SetHidden toggles the element's own visibility flag.
func (e *Element) SetHidden(hidden bool) *Element {
	e.hidden = hidden
	return e
}

// Bounds returns the element's assigned bounding box.
func (e *Element) Bounds() Rect { return e.bounds }

// SetBounds assigns the element's bounding box in screen cells.
func (e *Element) SetBounds(r Rect) *Element {
	e.bounds = r
	return e
}

// Attr returns the value of an attribute, or "" if unset.
func (e *Element) Attr(name string) string {
	return e.attrs[name]
}

// HasAttr reports whether an attribute is set, even to "".
func (e *Element) HasAttr(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(name, value string) *Element {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
	return e
}

// RemoveAttr removes an attribute.
func (e *Element) RemoveAttr(name string) {
	delete(e.attrs, name)
}

// StyleProp returns the inline value of a style property, or "" if unset.
func (e *Element) StyleProp(prop string) string {
	return e.styleVals[prop]
}

// HasStyleProp reports whether a style property is set inline.
func (e *Element) HasStyleProp(prop string) bool {
	_, ok := e.styleVals[prop]
	return ok
}

// SetStyleProp sets an inline style property, preserving first-set order.
func (e *Element) SetStyleProp(prop, value string) *Element {
	if e.styleVals == nil {
		e.styleVals = make(map[string]string)
	}
	if _, ok := e.styleVals[prop]; !ok {
		e.styleOrder = append(e.styleOrder, prop)
	}
	e.styleVals[prop] = value
	return e
}

// RemoveStyleProp removes an inline style property.
func (e *Element) RemoveStyleProp(prop string) {
	if _, ok := e.styleVals[prop]; !ok {
		return
	}
	delete(e.styleVals, prop)
	for i, p := range e.styleOrder {
		if p == prop {
			e.styleOrder = append(e.styleOrder[:i], e.styleOrder[i+1:]...)
			break
		}
	}
}

// StyleSnapshot returns the full inline style in set order.
func (e *Element) StyleSnapshot() []PropValue {
	out := make([]PropValue, 0, len(e.styleOrder))
	for _, p := range e.styleOrder {
		out = append(out, PropValue{Prop: p, Value: e.styleVals[p]})
	}
	return out
}

// RestoreStyleSnapshot replaces the entire inline style with a snapshot.
func (e *Element) RestoreStyleSnapshot(snap []PropValue) {
	e.styleVals = nil
	e.styleOrder = nil
	for _, pv := range snap {
		e.SetStyleProp(pv.Prop, pv.Value)
	}
}

// Parent returns the parent element, or nil for detached elements and roots.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the element's children. The slice is shared; do not
// mutate it directly, use Append and Remove.
func (e *Element) Children() []*Element { return e.children }

// Document returns the document the element is attached to, or nil.
func (e *Element) Document() *Document { return e.doc }

// Attached reports whether the element is part of a document tree.
func (e *Element) Attached() bool { return e.doc != nil }

// Append attaches children to this element, detaching them from any
// previous parent first.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		if c == nil || c == e {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = e
		e.children = append(e.children, c)
		if e.doc != nil {
			c.setDocument(e.doc)
			e.doc.notifyMutation(MutationAttach, c)
		}
	}
	return e
}

// Remove detaches a child from this element. If the child was focused,
// focus falls back to the document body.
func (e *Element) Remove(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			if doc := child.doc; doc != nil {
				doc.notifyMutation(MutationDetach, child)
				child.setDocument(nil)
				if doc.active != nil && !doc.active.Attached() {
					doc.active = doc.body
				}
			}
			return
		}
	}
}

// Detach removes the element from its parent, if any.
func (e *Element) Detach() {
	if e.parent != nil {
		e.parent.Remove(e)
	}
}

func (e *Element) setDocument(doc *Document) {
	e.doc = doc
	for _, c := range e.children {
		c.setDocument(doc)
	}
}

// Contains reports whether other is e or a descendant of e.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Rendered reports whether the element would be visible on screen: it is
// attached and neither it nor any ancestor is hidden. This is the analog
// of the non-null offsetParent check used to filter focusable elements.
func (e *Element) Rendered() bool {
	if e.doc == nil {
		return false
	}
	for n := e; n != nil; n = n.parent {
		if n.hidden {
			return false
		}
	}
	return true
}

// Focusable reports whether the element can take keyboard focus: it is an
// interactive kind or carries an explicit tab-index other than "-1", and
// it is rendered.
func (e *Element) Focusable() bool {
	if !e.Rendered() {
		return false
	}
	if e.kind.interactive() {
		return true
	}
	if ti, ok := e.attrs["tab-index"]; ok && ti != "-1" {
		return true
	}
	return false
}

// Walk visits e and every descendant in document order. Returning false
// from the visitor stops the walk.
func (e *Element) Walk(visit func(*Element) bool) bool {
	if !visit(e) {
		return false
	}
	for _, c := range e.children {
		if !c.Walk(visit) {
			return false
		}
	}
	return true
}

// collectFocusable returns the rendered focusable descendants of root in
// document order. The root itself is excluded.
func collectFocusable(root *Element) []*Element {
	var out []*Element
	root.Walk(func(el *Element) bool {
		if el != root && el.Focusable() {
			out = append(out, el)
		}
		return true
	})
	return out
}
