package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/frigo/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays the key binding and command reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
	admin bool
}

// NewHelpView creates a new help view. Admin-only sections are hidden from
// customers.
func NewHelpView(theme *ui.Theme, admin bool) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
		admin:    admin,
	}
	hv.Render()
	return hv
}

// Name implements ui.Component.
func (hv *HelpView) Name() string { return PageHelp }

// Start implements ui.Component.
func (hv *HelpView) Start() {}

// Stop implements ui.Component.
func (hv *HelpView) Stop() {}

// Hints implements ui.Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

type helpSection struct {
	title string
	admin bool
	rows  [][2]string
}

var helpSections = []helpSection{
	{title: "Global", rows: [][2]string{
		{":", "Command mode"},
		{"/", "Filter the list (as you type)"},
		{"Esc", "Clear filter, then go back"},
		{"r", "Refetch the list"},
		{"t", "Toggle dark/light theme"},
		{"?", "Help"},
		{"q", "Back, or quit from home"},
		{"Ctrl-C", "Quit immediately"},
	}},
	{title: "Lists", admin: true, rows: [][2]string{
		{"n", "New record"},
		{"e", "Edit selected"},
		{"d", "Delete selected (asks first)"},
		{"Enter", "Open selected"},
	}},
	{title: "Clients", admin: true, rows: [][2]string{
		{"c", "Purchases of the client"},
		{"b", "Record a purchase"},
		{"p", "Record a payment"},
	}},
	{title: "Notifications", admin: true, rows: [][2]string{
		{"m / Enter", "Mark as read"},
	}},
	{title: "Commands", rows: [][2]string{
		{":clients :products :purchases", "Jump to a list"},
		{":payments :reminders :notifications", "Jump to a list"},
		{":range <from> <to>", "Report period, e.g. :range 01/10/2026 31/10/2026"},
		{":range month", "Back to the current month"},
		{":theme [dark|light]", "Switch theme"},
		{":logout", "Forget the session"},
		{":help  :quit", "This page, leave"},
	}},
}

// Render redraws with the current theme.
func (hv *HelpView) Render() {
	styleBox(hv.Box, hv.theme, " Help ")
	hv.SetTextColor(hv.theme.FgColor)
	hv.Clear()

	kc := ui.Tag(hv.theme.MenuKeyColor)
	var b strings.Builder
	for _, s := range helpSections {
		if s.admin && !hv.admin {
			continue
		}
		fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", s.title)
		for _, r := range s.rows {
			fmt.Fprintf(&b, "  %s%-38s[-] %s\n", kc, tview.Escape(r[0]), r[1])
		}
	}
	_, _ = fmt.Fprint(hv, b.String())
}
