// Package keys maps key events to actions, globally and per page.
package keys

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/frigo/internal/tui/ui"
)

// Action represents a keybinding action.
type Action struct {
	Key         tcell.Key
	Rune        rune
	Label       string // shown in the menu, e.g. "n" or "Enter"
	Description string
	Handler     func()
	Visible     bool
	Danger      bool
}

// Matches returns true if the event matches this action.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	if a.Key != tcell.KeyRune {
		return ev.Key() == a.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == a.Rune
}

// Rune builds a visible action bound to a printable key.
func Rune(r rune, description string, handler func()) *Action {
	return &Action{Key: tcell.KeyRune, Rune: r, Label: string(r), Description: description, Handler: handler, Visible: true}
}

// Key builds a visible action bound to a special key.
func Key(k tcell.Key, label, description string, handler func()) *Action {
	return &Action{Key: k, Label: label, Description: description, Handler: handler, Visible: true}
}

// Registry holds keybindings organized by scope, in registration order.
type Registry struct {
	global []*Action
	views  map[string][]*Action
}

// NewRegistry creates a new keybinding registry.
func NewRegistry() *Registry {
	return &Registry{
		views: make(map[string][]*Action),
	}
}

// AddGlobal registers a binding active on every page.
func (r *Registry) AddGlobal(action *Action) {
	r.global = append(r.global, action)
}

// AddView registers a binding active only on the named page.
func (r *Registry) AddView(view string, action *Action) {
	r.views[view] = append(r.views[view], action)
}

// ClearView drops every binding of the named page.
func (r *Registry) ClearView(view string) {
	delete(r.views, view)
}

// Hints returns the visible bindings for a page: its own first, then globals.
func (r *Registry) Hints(view string) []ui.MenuHint {
	var hints []ui.MenuHint
	seen := make(map[string]bool)
	for _, set := range [][]*Action{r.views[view], r.global} {
		for _, a := range set {
			if !a.Visible || seen[a.Label] {
				continue
			}
			seen[a.Label] = true
			hints = append(hints, ui.MenuHint{Key: a.Label, Description: a.Description, Danger: a.Danger})
		}
	}
	return hints
}

// HandleEvent dispatches a key event to the first matching action,
// page bindings before globals. Returns true if a handler ran.
func (r *Registry) HandleEvent(view string, ev *tcell.EventKey) bool {
	for _, set := range [][]*Action{r.views[view], r.global} {
		for _, a := range set {
			if a.Matches(ev) {
				a.Handler()
				return true
			}
		}
	}
	return false
}
