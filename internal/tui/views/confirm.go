package views

import (
	"github.com/matheus3301/frigo/internal/tui/ui"
	"github.com/rivo/tview"
)

// Confirm asks a yes/no question over the current page.
type Confirm struct {
	*tview.Modal
}

// NewConfirm creates a dialog. onYes runs only when the user picks Delete.
func NewConfirm(theme *ui.Theme, text string, onYes, onNo func()) *Confirm {
	m := tview.NewModal().
		SetText(text).
		AddButtons([]string{"Cancel", "Delete"}).
		SetDoneFunc(func(_ int, label string) {
			if label == "Delete" {
				onYes()
				return
			}
			onNo()
		})
	m.SetBackgroundColor(theme.BgColor)
	m.SetTextColor(theme.FgColor)
	m.SetBorderColor(theme.DangerKeyColor)
	m.SetButtonBackgroundColor(theme.BorderColor)
	m.SetTitle(" Confirm ")
	m.SetTitleColor(theme.DangerKeyColor)
	return &Confirm{Modal: m}
}

// Name implements ui.Component.
func (c *Confirm) Name() string { return PageConfirm }

// Start implements ui.Component.
func (c *Confirm) Start() {}

// Stop implements ui.Component.
func (c *Confirm) Stop() {}

// Overlay keeps the page below visible.
func (c *Confirm) Overlay() bool { return true }

// Hints implements ui.Component.
func (c *Confirm) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Switch"},
		{Key: "Enter", Description: "Choose"},
		{Key: "Esc", Description: "Cancel"},
	}
}
