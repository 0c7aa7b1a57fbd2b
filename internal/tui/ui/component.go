package ui

import "github.com/rivo/tview"

// MenuHint describes a keyboard shortcut for display in the menu bar.
type MenuHint struct {
	Key         string
	Description string
	Danger      bool // destructive actions are drawn in the warning color
}

// Component is the lifecycle interface for every page pushed on the stack.
// Start runs when the page is pushed, Stop when it is popped or replaced.
type Component interface {
	tview.Primitive
	Name() string
	Start()
	Stop()
	Hints() []MenuHint
}

// Filterable is implemented by pages that narrow their rows with the / prompt.
type Filterable interface {
	SetFilter(query string)
	Filter() string
}

// Refreshable is implemented by pages backed by remote data.
type Refreshable interface {
	Refresh()
}

// Renderer is implemented by pages that redraw from shared state.
// It is always called on the UI goroutine.
type Renderer interface {
	Render()
}

// Overlay is implemented by pages drawn on top of the previous one, such as
// confirmation dialogs.
type Overlay interface {
	Overlay() bool
}
