package scrim

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap binds terminal keys to the document's key events.
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Home   key.Binding
	End    key.Binding
	Select key.Binding
	Close  key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Home:   key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first")),
		End:    key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// TickMsg carries scheduler time into the update loop.
type TickMsg time.Time

// Driver connects a document and a step scheduler to a bubbletea
// program. Key messages become document key events, window sizes resize
// the document, and tick messages advance the scheduler so transitions
// and timers run on virtual time synchronized with the event loop.
type Driver struct {
	Doc   *Document
	Sched *StepScheduler
	Keys  KeyMap

	last time.Time
}

// NewDriver creates a driver for doc with its own scheduler.
func NewDriver(doc *Document) *Driver {
	return &Driver{
		Doc:   doc,
		Sched: NewStepScheduler(),
		Keys:  DefaultKeyMap(),
		last:  time.Now(),
	}
}

// Update handles a bubbletea message. The returned command, when not
// nil, is the tick that wakes the program for the next pending timer;
// callers return it from their own Update.
func (d *Driver) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if k, ok := d.translate(msg); ok {
			d.Doc.DispatchKey(k)
		}
	case tea.WindowSizeMsg:
		d.Doc.SetSize(msg.Width, msg.Height)
	case TickMsg:
		now := time.Time(msg)
		if now.After(d.last) {
			d.Sched.Advance(now.Sub(d.last))
			d.last = now
		}
	}
	return d.Tick()
}

// Tick returns a command that delivers a TickMsg at the next scheduler
// deadline, or nil when nothing is pending.
func (d *Driver) Tick() tea.Cmd {
	wait, ok := d.Sched.NextDeadline()
	if !ok {
		return nil
	}
	return tea.Tick(wait, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (d *Driver) translate(msg tea.KeyMsg) (Key, bool) {
	switch {
	case key.Matches(msg, d.Keys.Next):
		return Key{Code: KeyTab}, true
	case key.Matches(msg, d.Keys.Prev):
		return Key{Code: KeyTab, Shift: true}, true
	case key.Matches(msg, d.Keys.Up):
		return Key{Code: KeyUp}, true
	case key.Matches(msg, d.Keys.Down):
		return Key{Code: KeyDown}, true
	case key.Matches(msg, d.Keys.Left):
		return Key{Code: KeyLeft}, true
	case key.Matches(msg, d.Keys.Right):
		return Key{Code: KeyRight}, true
	case key.Matches(msg, d.Keys.Home):
		return Key{Code: KeyHome}, true
	case key.Matches(msg, d.Keys.End):
		return Key{Code: KeyEnd}, true
	case key.Matches(msg, d.Keys.Select):
		return Key{Code: KeyEnter}, true
	case key.Matches(msg, d.Keys.Close):
		return Key{Code: KeyEscape}, true
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		return Key{Code: KeyRune, Rune: msg.Runes[0]}, true
	}
	if msg.Type == tea.KeySpace {
		return Key{Code: KeyRune, Rune: ' '}, true
	}
	return Key{}, false
}
