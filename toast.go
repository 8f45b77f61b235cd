package scrim

import (
	"fmt"
	"time"
)

// ToastKind classifies a toast for styling and announcements.
type ToastKind uint8

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastWarning
	ToastError
)

func (k ToastKind) String() string {
	switch k {
	case ToastSuccess:
		return "success"
	case ToastWarning:
		return "warning"
	case ToastError:
		return "error"
	default:
		return "info"
	}
}

// DefaultToastDuration is how long a toast stays up when the caller does
// not override it.
const DefaultToastDuration = 4 * time.Second

// Toast is one live notification.
type Toast struct {
	ID      int
	Kind    ToastKind
	Message string
	el      *Element
	cancel  func()
}

// Element returns the toast's live element.
func (t *Toast) Element() *Element { return t.el }

// Toaster owns a stack of transient notifications. The container element
// is created lazily on the first Show and removed from the document again
// when the last toast is dismissed.
type Toaster struct {
	doc      *Document
	sched    Scheduler
	duration time.Duration

	container *Element
	toasts    []*Toast
	nextID    int
}

// NewToaster creates a toaster for the document. A zero duration selects
// DefaultToastDuration.
func NewToaster(doc *Document, sched Scheduler, duration time.Duration) *Toaster {
	if sched == nil {
		sched = NewTimerScheduler()
	}
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	return &Toaster{doc: doc, sched: sched, duration: duration}
}

// Show creates a toast, mounts its element and schedules auto-dismissal.
// It returns the toast's id for an early Dismiss. On a nil document Show
// is a no-op returning 0.
func (t *Toaster) Show(kind ToastKind, message string) int {
	if t.doc == nil {
		return 0
	}
	if t.container == nil {
		t.container = NewElement(KindBox)
		t.container.SetAttr("data-scrim", "toasts")
		t.doc.Body().Append(t.container)
	}

	t.nextID++
	id := t.nextID
	el := NewElement(KindText).SetText(message)
	el.SetID(fmt.Sprintf("scrim-toast-%d", id))
	el.SetAttr("data-kind", kind.String())
	t.container.Append(el)

	toast := &Toast{ID: id, Kind: kind, Message: message, el: el}
	toast.cancel = t.sched.AfterFunc(t.duration, func() { t.Dismiss(id) })
	t.toasts = append(t.toasts, toast)

	Announce(t.doc, t.sched, message)
	return id
}

// Dismiss removes a toast immediately. Dismissing an unknown id warns and
// does nothing: stale ids are a normal runtime condition, not a crash.
func (t *Toaster) Dismiss(id int) {
	for i, toast := range t.toasts {
		if toast.ID != id {
			continue
		}
		toast.cancel()
		toast.el.Detach()
		t.toasts = append(t.toasts[:i], t.toasts[i+1:]...)
		if len(t.toasts) == 0 && t.container != nil {
			t.container.Detach()
			t.container = nil
		}
		return
	}
	warnf("toast: Dismiss of unknown id %d", id)
}

// DismissAll removes every live toast.
func (t *Toaster) DismissAll() {
	for len(t.toasts) > 0 {
		t.Dismiss(t.toasts[0].ID)
	}
}

// Active returns the live toasts, oldest first.
func (t *Toaster) Active() []*Toast {
	out := make([]*Toast, len(t.toasts))
	copy(out, t.toasts)
	return out
}

// Container returns the live container element, or nil when no toasts are
// up.
func (t *Toaster) Container() *Element { return t.container }
