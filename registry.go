package scrim

import "fmt"

// MountAttr is the attribute the registry reads to decide which
// constructor mounts an element.
const MountAttr = "data-component"

// Constructor builds a component bound to an element found during a scan.
// The returned Unmounter tears the component down when the element leaves
// the document.
type Constructor func(el *Element) (Unmounter, error)

// Unmounter releases a mounted component.
type Unmounter interface {
	Unmount()
}

// UnmountFunc adapts a function to the Unmounter interface.
type UnmountFunc func()

// Unmount implements Unmounter.
func (f UnmountFunc) Unmount() { f() }

// Registry maps component names to constructors and tracks what it has
// mounted, so declarative markup (elements tagged with data-component)
// becomes live components: once via Scan, and incrementally via Observe
// as subtrees are attached and detached. The mapping is a plain table;
// there is no reflection.
type Registry struct {
	ctors   map[string]Constructor
	mounted map[*Element]Unmounter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ctors:   make(map[string]Constructor),
		mounted: make(map[*Element]Unmounter),
	}
}

// Register binds a component name to its constructor. Re-registering a
// name is a configuration mistake and fails.
func (r *Registry) Register(name string, ctor Constructor) error {
	if name == "" || ctor == nil {
		return fmt.Errorf("registry: name and constructor are required")
	}
	if _, dup := r.ctors[name]; dup {
		return fmt.Errorf("registry: %q already registered", name)
	}
	r.ctors[name] = ctor
	return nil
}

// Scan walks root's subtree and mounts every tagged element that is not
// already mounted. Unknown names warn and are skipped; constructor errors
// warn and leave the element unmounted.
func (r *Registry) Scan(root *Element) {
	if root == nil {
		return
	}
	root.Walk(func(el *Element) bool {
		name := el.Attr(MountAttr)
		if name == "" {
			return true
		}
		if _, live := r.mounted[el]; live {
			return true
		}
		ctor, ok := r.ctors[name]
		if !ok {
			warnf("registry: no component registered for %q", name)
			return true
		}
		u, err := ctor(el)
		if err != nil {
			warnf("registry: mounting %q: %v", name, err)
			return true
		}
		if u != nil {
			r.mounted[el] = u
		}
		return true
	})
}

// Observe wires the registry to the document's mutation notifications:
// newly attached subtrees are scanned, and components in detached
// subtrees are unmounted. The returned function stops observing.
func (r *Registry) Observe(doc *Document) (stop func()) {
	if doc == nil {
		return func() {}
	}
	return doc.OnMutation(func(kind MutationKind, el *Element) {
		switch kind {
		case MutationAttach:
			r.Scan(el)
		case MutationDetach:
			r.unmountSubtree(el)
		}
	})
}

// MountedCount returns how many components are currently live.
func (r *Registry) MountedCount() int { return len(r.mounted) }

// UnmountAll tears down every mounted component.
func (r *Registry) UnmountAll() {
	for el, u := range r.mounted {
		delete(r.mounted, el)
		u.Unmount()
	}
}

func (r *Registry) unmountSubtree(root *Element) {
	root.Walk(func(el *Element) bool {
		if u, ok := r.mounted[el]; ok {
			delete(r.mounted, el)
			u.Unmount()
		}
		return true
	})
}
