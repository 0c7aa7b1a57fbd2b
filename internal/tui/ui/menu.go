package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// menuRows is how many hints fit in one column of the header.
const menuRows = 5

// Menu displays keyboard shortcut hints in columns.
type Menu struct {
	*tview.TextView
	theme *Theme
	hints []MenuHint
}

// NewMenu creates a new menu hint bar.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBorderPadding(0, 0, 2, 0)

	return &Menu{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders hints column-major, menuRows per column.
func (m *Menu) Update(hints []MenuHint) {
	m.hints = hints
	m.Render()
}

// Render redraws the current hints with the current theme.
func (m *Menu) Render() {
	m.SetBackgroundColor(m.theme.BgColor)
	m.Clear()
	_, _ = fmt.Fprint(m, strings.Join(menuLines(m.hints, m.theme), "\n"))
}

func menuLines(hints []MenuHint, theme *Theme) []string {
	cols := (len(hints) + menuRows - 1) / menuRows
	width := make([]int, cols)
	for i, h := range hints {
		if w := len(h.Key) + len(h.Description) + 3; w > width[i/menuRows] {
			width[i/menuRows] = w
		}
	}

	rows := min(len(hints), menuRows)
	lines := make([]string, rows)
	for i, h := range hints {
		col, row := i/menuRows, i%menuRows
		kc := colorName(theme.MenuKeyColor)
		if h.Danger {
			kc = colorName(theme.DangerKeyColor)
		}
		cell := fmt.Sprintf("[%s::b]<%s>[-:-:-] %s", kc, h.Key, h.Description)
		pad := width[col] - (len(h.Key) + len(h.Description) + 3)
		if col < cols-1 {
			cell += strings.Repeat(" ", pad+2)
		}
		lines[row] += cell
	}
	return lines
}
