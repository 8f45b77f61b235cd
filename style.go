package scrim

// StyleManager records the original value of every inline style property
// it overrides and restores them exactly on demand. The first write to a
// property establishes the restore point; later writes through the same
// manager only update the live value.
//
// One manager per component instance. Two managers writing the same
// property on the same element will fight over the baseline: the last one
// to restore wins, which can corrupt the other's recorded original. That
// is a documented limitation, not something the manager defends against.
type StyleManager struct {
	records map[*Element]*styleRecord
}

type styleRecord struct {
	originals map[string]string
	order     []string
}

// NewStyleManager creates an empty manager.
func NewStyleManager() *StyleManager {
	return &StyleManager{}
}

// Set records prop's current value on first write for the element, then
// applies value. Nil elements are ignored.
func (m *StyleManager) Set(el *Element, prop, value string) {
	if el == nil || prop == "" {
		return
	}
	rec := m.record(el)
	if _, seen := rec.originals[prop]; !seen {
		rec.originals[prop] = el.StyleProp(prop)
		rec.order = append(rec.order, prop)
	}
	el.SetStyleProp(prop, value)
}

// SetMany applies properties in slice order, recording originals the same
// way Set does. Order matters for properties that interact.
func (m *StyleManager) SetMany(el *Element, props []PropValue) {
	for _, pv := range props {
		m.Set(el, pv.Prop, pv.Value)
	}
}

// Restore writes back every recorded original for the element, removing
// properties whose original value was unset, and clears the record.
// Calling it again is a no-op.
func (m *StyleManager) Restore(el *Element) {
	rec, ok := m.records[el]
	if !ok {
		return
	}
	delete(m.records, el)
	for _, prop := range rec.order {
		if orig := rec.originals[prop]; orig == "" {
			el.RemoveStyleProp(prop)
		} else {
			el.SetStyleProp(prop, orig)
		}
	}
}

// RestoreAll restores every element the manager has touched.
func (m *StyleManager) RestoreAll() {
	for el := range m.records {
		m.Restore(el)
	}
}

// Clear discards the record for el without writing anything back. Use it
// when the element has already left the document and restoring would be a
// wasted write. With no element, Clear discards every record.
func (m *StyleManager) Clear(el *Element) {
	if el == nil {
		m.records = nil
		return
	}
	delete(m.records, el)
}

// Tracked reports whether the manager holds a record for el.
func (m *StyleManager) Tracked(el *Element) bool {
	_, ok := m.records[el]
	return ok
}

func (m *StyleManager) record(el *Element) *styleRecord {
	if m.records == nil {
		m.records = make(map[*Element]*styleRecord)
	}
	rec, ok := m.records[el]
	if !ok {
		rec = &styleRecord{originals: make(map[string]string)}
		m.records[el] = rec
	}
	return rec
}
