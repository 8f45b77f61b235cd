package scrim

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Theme provides the lipgloss styles the renderer draws overlays with.
type Theme struct {
	Base   lipgloss.Style // default text
	Muted  lipgloss.Style // help lines, de-emphasized text
	Accent lipgloss.Style // focused/active items
	Error  lipgloss.Style // error toasts
	Panel  lipgloss.Style // overlay frames
}

// DefaultTheme returns a dark theme.
func DefaultTheme() Theme {
	return Theme{
		Base:   lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Accent: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
	}
}

// backdropChar fills the dimmed area behind modal overlays.
const backdropChar = "░"

// Renderer draws a document's overlay layers over caller-provided base
// content. It is a deliberately simple collaborator: overlays above a
// dimmed backdrop replace the view, non-modal layers (menus, toasts) are
// spliced over the base by position. Layout of the base content itself is
// the caller's business.
type Renderer struct {
	theme Theme
}

// NewRenderer creates a renderer with the given theme.
func NewRenderer(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Frame renders one frame: base content plus whatever overlay layers are
// currently visible in the document.
func (r *Renderer) Frame(doc *Document, base string) string {
	if doc == nil {
		return base
	}
	w, h := doc.Size()
	out := base

	if panel, pos := r.topDialog(doc); panel != nil {
		content := r.renderPanel(doc, panel)
		hasBackdrop := findElement(doc.Body(), func(el *Element) bool {
			return el.Attr("data-scrim") == "backdrop"
		}) != nil
		if hasBackdrop {
			out = lipgloss.Place(w, h, pos.h, pos.v, content,
				lipgloss.WithWhitespaceChars(backdropChar),
				lipgloss.WithWhitespaceForeground(lipgloss.Color("8")))
		} else {
			out = lipgloss.Place(w, h, pos.h, pos.v, content)
		}
	}

	if menu := r.openMenu(doc); menu != nil {
		b := menu.Bounds()
		out = spliceAt(out, r.renderMenu(doc, menu), b.X, b.Y, w, h)
	}

	if toasts := findElement(doc.Body(), func(el *Element) bool {
		return el.Attr("data-scrim") == "toasts"
	}); toasts != nil {
		stack := r.renderToasts(toasts)
		x := w - lipgloss.Width(stack) - 1
		if x < 0 {
			x = 0
		}
		out = spliceAt(out, stack, x, 0, w, h)
	}

	return out
}

type placePos struct {
	h lipgloss.Position
	v lipgloss.Position
}

// topDialog returns the last visible dialog element and where to place
// it: centered for modals, edge-aligned for drawers.
func (r *Renderer) topDialog(doc *Document) (*Element, placePos) {
	var found *Element
	doc.Body().Walk(func(el *Element) bool {
		if el.Attr("role") == "dialog" && el.Attr("aria-hidden") == "false" && el.StyleProp("opacity") != "0" {
			found = el
		}
		return true
	})
	pos := placePos{h: lipgloss.Center, v: lipgloss.Center}
	if found != nil {
		switch found.Attr("data-side") {
		case "left":
			pos.h = lipgloss.Left
		case "right":
			pos.h = lipgloss.Right
		case "top":
			pos.v = lipgloss.Top
		case "bottom":
			pos.v = lipgloss.Bottom
		}
	}
	return found, pos
}

func (r *Renderer) openMenu(doc *Document) *Element {
	return findElement(doc.Body(), func(el *Element) bool {
		return el.Attr("role") == "menu" && el.Attr("aria-hidden") == "false" && el.StyleProp("opacity") != "0"
	})
}

// renderPanel draws a dialog: framed, titled from its aria-label, with
// text children as lines and button children as a row. The focused
// button is accented.
func (r *Renderer) renderPanel(doc *Document, el *Element) string {
	var lines []string
	if title := el.Attr("aria-label"); title != "" {
		lines = append(lines, r.theme.Accent.Render(title))
	}
	var buttons []string
	el.Walk(func(c *Element) bool {
		if c == el {
			return true
		}
		switch c.Kind() {
		case KindText:
			lines = append(lines, r.theme.Base.Render(c.Text()))
		case KindButton:
			label := "[ " + c.Text() + " ]"
			if doc.Active() == c {
				label = r.theme.Accent.Render(label)
			} else {
				label = r.theme.Base.Render(label)
			}
			buttons = append(buttons, label)
		}
		return true
	})
	if len(buttons) > 0 {
		lines = append(lines, "", strings.Join(buttons, "  "))
	}
	return r.theme.Panel.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) renderMenu(doc *Document, menu *Element) string {
	var lines []string
	for _, item := range menuItems(menu) {
		label := item.Text()
		if item.Attr("data-active") == "true" || doc.Active() == item {
			label = r.theme.Accent.Render("> " + label)
		} else {
			label = r.theme.Base.Render("  " + label)
		}
		lines = append(lines, label)
	}
	return r.theme.Panel.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) renderToasts(container *Element) string {
	var rendered []string
	for _, t := range container.Children() {
		style := r.theme.Panel
		switch t.Attr("data-kind") {
		case "error":
			style = style.BorderForeground(lipgloss.Color("9"))
		case "success":
			style = style.BorderForeground(lipgloss.Color("10"))
		case "warning":
			style = style.BorderForeground(lipgloss.Color("11"))
		}
		rendered = append(rendered, style.Render(t.Text()))
	}
	return strings.Join(rendered, "\n")
}

// findElement returns the first element in the subtree matching pred.
func findElement(root *Element, pred func(*Element) bool) *Element {
	var found *Element
	root.Walk(func(el *Element) bool {
		if pred(el) {
			found = el
			return false
		}
		return true
	})
	return found
}

// spliceAt overlays block onto base at cell position (x, y). The cut is
// made in display cells, so wide runes and ANSI escapes in the base line
// up under the block instead of drifting.
func spliceAt(base, block string, x, y, w, h int) string {
	baseLines := strings.Split(base, "\n")
	for len(baseLines) < h {
		baseLines = append(baseLines, "")
	}
	blockLines := strings.Split(block, "\n")
	for i, bl := range blockLines {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		line := baseLines[row]
		prefix := ansi.Truncate(line, x, "")
		if pw := ansi.StringWidth(prefix); pw < x {
			prefix += strings.Repeat(" ", x-pw)
		}
		suffix := ansi.TruncateLeft(line, x+ansi.StringWidth(bl), "")
		baseLines[row] = prefix + bl + suffix
	}
	if len(baseLines) > h && h > 0 {
		baseLines = baseLines[:h]
	}
	return strings.Join(baseLines, "\n")
}
