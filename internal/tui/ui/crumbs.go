package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Crumbs is a breadcrumb bar showing the page stack and the active filter.
type Crumbs struct {
	*tview.TextView
	theme  *Theme
	stack  []string
	filter string
}

// NewCrumbs creates a new breadcrumb bar.
func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().
		SetDynamicColors(true)

	c := &Crumbs{
		TextView: tv,
		theme:    theme,
	}
	c.render()
	return c
}

// Update renders the breadcrumb trail from the page stack.
func (c *Crumbs) Update(stack []string) {
	c.stack = stack
	c.render()
}

// SetFilter shows query as a trailing crumb; blank hides it.
func (c *Crumbs) SetFilter(query string) {
	c.filter = strings.TrimSpace(query)
	c.render()
}

// Render redraws with the current theme.
func (c *Crumbs) Render() { c.render() }

func (c *Crumbs) render() {
	c.SetBackgroundColor(c.theme.BgColor)
	c.Clear()
	if len(c.stack) == 0 {
		return
	}

	parts := make([]string, 0, len(c.stack)+1)
	for i, name := range c.stack {
		fg, bg, attr := c.theme.CrumbInactiveFg, c.theme.CrumbInactiveBg, ""
		if i == len(c.stack)-1 {
			fg, bg, attr = c.theme.CrumbActiveFg, c.theme.CrumbActiveBg, "b"
		}
		parts = append(parts, fmt.Sprintf("[%s:%s:%s] %s [-:-:-]",
			colorName(fg), colorName(bg), attr, tview.Escape(strings.ToLower(name))))
	}
	if c.filter != "" {
		parts = append(parts, fmt.Sprintf("[%s::b]/%s[-:-:-]",
			colorName(c.theme.CounterColor), tview.Escape(c.filter)))
	}
	_, _ = fmt.Fprint(c, strings.Join(parts, " > "))
}

// colorName returns a tview-compatible color name string.
// Aliased colors resolve to the alphabetically first name.
func colorName(c tcell.Color) string {
	best := ""
	for name, val := range tcell.ColorNames {
		if val == c && (best == "" || name < best) {
			best = name
		}
	}
	if best == "" {
		return fmt.Sprintf("#%06x", c.Hex())
	}
	return best
}

// Tag returns the tview color tag for c, e.g. "[orange]".
func Tag(c tcell.Color) string {
	return "[" + colorName(c) + "]"
}
