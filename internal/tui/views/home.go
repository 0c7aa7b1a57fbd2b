package views

import (
	"fmt"

	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/tui/ui"
	"github.com/rivo/tview"
)

// HomeEntry is one destination on the home page.
type HomeEntry struct {
	Page     string
	Shortcut rune
	Summary  string
}

// AdminEntries are the destinations of the admin portal.
func AdminEntries() []HomeEntry {
	return []HomeEntry{
		{PageClients, '1', "customers, their purchases and payments"},
		{PageProducts, '2', "catalogue and prices"},
		{PagePurchases, '3', "purchases in the report period"},
		{PagePayments, '4', "payments in the report period"},
		{PageReminders, '5', "dated notes"},
		{PageNotifications, '6', "overdue interest and reminders due today"},
		{PageHelp, '?', "keys and commands"},
	}
}

// CustomerEntries are the destinations of the customer portal.
func CustomerEntries() []HomeEntry {
	return []HomeEntry{
		{PageCustomerPurchases, '1', "your purchases and what you owe"},
		{PageHelp, '?', "keys and commands"},
	}
}

// Home is the landing page after login.
type Home struct {
	*tview.List
	theme   *ui.Theme
	name    string
	entries []HomeEntry
	counts  api.Counts
	onOpen  func(page string)
}

// NewHome creates the home page for a user called name.
func NewHome(theme *ui.Theme, name string, entries []HomeEntry) *Home {
	h := &Home{
		List:    tview.NewList(),
		theme:   theme,
		name:    name,
		entries: entries,
	}
	h.Render()
	return h
}

// Name implements ui.Component.
func (h *Home) Name() string { return PageHome }

// Start implements ui.Component.
func (h *Home) Start() {}

// Stop implements ui.Component.
func (h *Home) Stop() {}

// Hints implements ui.Component.
func (h *Home) Hints() []ui.MenuHint {
	return []ui.MenuHint{{Key: "Enter", Description: "Open"}}
}

// SetOnOpen sets the callback for choosing an entry.
func (h *Home) SetOnOpen(fn func(page string)) {
	h.onOpen = fn
}

// SetCounts updates the notification badge.
func (h *Home) SetCounts(c api.Counts) {
	if c == h.counts {
		return
	}
	h.counts = c
	h.Render()
}

// Render rebuilds the entries with the current theme and counts.
func (h *Home) Render() {
	current := h.GetCurrentItem()
	h.Clear()
	styleBox(h.Box, h.theme, fmt.Sprintf(" Hello, %s ", clean(h.name)))
	h.SetMainTextColor(h.theme.FgColor)
	h.SetSecondaryTextColor(h.theme.MutedColor)
	h.SetShortcutColor(h.theme.MenuKeyColor)
	h.SetSelectedTextColor(h.theme.TableCursorFg)
	h.SetSelectedBackgroundColor(h.theme.TableCursorBg)

	for _, e := range h.entries {
		page := e.Page
		h.AddItem(h.label(e), e.Summary, e.Shortcut, func() {
			if h.onOpen != nil {
				h.onOpen(page)
			}
		})
	}
	if current > 0 && current < h.GetItemCount() {
		h.SetCurrentItem(current)
	}
}

func (h *Home) label(e HomeEntry) string {
	if e.Page != PageNotifications || h.counts.Total() == 0 {
		return e.Page
	}
	return fmt.Sprintf("%s %s(%d)[-]", e.Page, ui.Tag(h.theme.FlashErrColor), h.counts.Total())
}
