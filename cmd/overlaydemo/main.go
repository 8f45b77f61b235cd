package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"scrim"
)

type model struct {
	driver   *scrim.Driver
	renderer *scrim.Renderer
	toaster  *scrim.Toaster

	modal    *scrim.Overlay
	drawer   *scrim.Overlay
	dropdown *scrim.Dropdown

	status string
	done   bool
}

func newModel(width, height int) *model {
	doc := scrim.NewDocument(width, height)
	driver := scrim.NewDriver(doc)
	sched := driver.Sched

	m := &model{
		driver:   driver,
		renderer: scrim.NewRenderer(scrim.DefaultTheme()),
		toaster:  scrim.NewToaster(doc, sched, scrim.DefaultToastDuration),
		status:   "ready",
	}

	// Modal: a framed dialog with two buttons and a focus trap.
	dialog := scrim.NewElement(scrim.KindBox)
	msg := scrim.NewElement(scrim.KindText)
	msg.SetText("Delete 3 files? This cannot be undone.")
	confirm := scrim.NewElement(scrim.KindButton)
	confirm.SetText("Delete")
	cancel := scrim.NewElement(scrim.KindButton)
	cancel.SetText("Cancel")
	dialog.Append(msg)
	dialog.Append(confirm)
	dialog.Append(cancel)
	doc.Body().Append(dialog)

	m.modal = scrim.NewModal(dialog, scrim.Options{
		Label:           "Confirm delete",
		InitialFocus:    cancel,
		CloseOnEscape:   true,
		CloseOnBackdrop: true,
		Scheduler:       sched,
		OnClose:         func() { m.status = "modal closed" },
	})
	confirm.On(scrim.EventClick, func(e *scrim.Event) {
		m.toaster.Show(scrim.ToastError, "3 files deleted")
		m.modal.Close()
	})
	cancel.On(scrim.EventClick, func(e *scrim.Event) { m.modal.Close() })

	// Drawer sliding in from the right.
	panel := scrim.NewElement(scrim.KindBox)
	note := scrim.NewElement(scrim.KindText)
	note.SetText("Settings live here.")
	closeBtn := scrim.NewElement(scrim.KindButton)
	closeBtn.SetText("Close")
	panel.Append(note)
	panel.Append(closeBtn)
	doc.Body().Append(panel)

	m.drawer = scrim.NewDrawer(panel, scrim.SideRight, scrim.Options{
		Label:         "Settings",
		CloseOnEscape: true,
		Scheduler:     sched,
	})
	closeBtn.On(scrim.EventClick, func(e *scrim.Event) { m.drawer.Close() })

	// Dropdown anchored to a trigger.
	trigger := scrim.NewElement(scrim.KindButton)
	trigger.SetText("Actions")
	trigger.SetBounds(scrim.Rect{X: 2, Y: 4, W: 11, H: 1})
	doc.Body().Append(trigger)

	menu := scrim.NewElement(scrim.KindBox)
	for _, label := range []string{"Rename", "Duplicate", "Archive"} {
		it := scrim.NewElement(scrim.KindButton)
		it.SetText(label)
		menu.Append(it)
	}

	dd, err := scrim.NewDropdown(trigger, menu, scrim.DropdownOptions{
		Scheduler: sched,
		OnSelect: func(i int, item *scrim.Element) {
			m.toaster.Show(scrim.ToastSuccess, item.Text()+" done")
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	m.dropdown = dd

	return m
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "q":
			m.done = true
			return m, tea.Quit
		case "m":
			m.modal.Toggle()
			m.status = "modal"
			return m, m.driver.Tick()
		case "s":
			m.drawer.Toggle()
			m.status = "drawer"
			return m, m.driver.Tick()
		case "a":
			m.dropdown.Toggle()
			m.status = "dropdown"
			return m, m.driver.Tick()
		case "t":
			m.toaster.Show(scrim.ToastInfo, "hello from scrim")
			return m, m.driver.Tick()
		}
	}
	return m, m.driver.Update(msg)
}

func (m *model) View() string {
	if m.done {
		return ""
	}
	w, h := m.driver.Doc.Size()
	var b strings.Builder
	b.WriteString("scrim demo\n\n")
	b.WriteString("  m  modal    s  drawer    a  dropdown    t  toast    q  quit\n\n")
	b.WriteString("  [ Actions ]\n")
	b.WriteString(fmt.Sprintf("\n  status: %s\n", m.status))
	return m.renderer.Frame(m.driver.Doc, padFrame(b.String(), w, h))
}

// padFrame grows content to the full terminal height so overlays have a
// canvas to splice onto.
func padFrame(s string, w, h int) string {
	lines := strings.Split(s, "\n")
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func main() {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 80, 24
	}

	p := tea.NewProgram(newModel(width, height), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
