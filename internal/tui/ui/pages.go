package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Pages is a stack of components wrapping tview.Pages.
// Pushing starts a component, popping stops and removes it.
type Pages struct {
	*tview.Pages
	stack    []entry
	next     int
	onChange func(stack []string)
}

type entry struct {
	id   string
	comp Component
}

// NewPages creates an empty stack.
func NewPages() *Pages {
	return &Pages{
		Pages: tview.NewPages(),
	}
}

// SetOnChange sets a callback that fires when the stack changes.
func (p *Pages) SetOnChange(fn func(stack []string)) {
	p.onChange = fn
}

// Push adds c to the top of the stack, shows it and starts it.
func (p *Pages) Push(c Component) {
	if len(p.stack) > 0 && !isOverlay(c) {
		p.HidePage(p.stack[len(p.stack)-1].id)
	}
	p.next++
	e := entry{id: fmt.Sprintf("%s#%d", c.Name(), p.next), comp: c}
	p.stack = append(p.stack, e)
	p.AddPage(e.id, c, true, true)
	p.SendToFront(e.id)
	c.Start()
	p.notify()
}

// Pop stops and removes the top component and shows the previous one.
// The last remaining component is never popped.
func (p *Pages) Pop() Component {
	if len(p.stack) < 2 {
		return nil
	}
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	top.comp.Stop()
	p.RemovePage(top.id)

	current := p.stack[len(p.stack)-1]
	p.ShowPage(current.id)
	p.SendToFront(current.id)
	p.notify()
	return top.comp
}

// Replace swaps the top component for c.
func (p *Pages) Replace(c Component) {
	if len(p.stack) == 0 {
		p.Push(c)
		return
	}
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	top.comp.Stop()
	p.RemovePage(top.id)
	p.Push(c)
}

// Current returns the top component, or nil when the stack is empty.
func (p *Pages) Current() Component {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1].comp
}

// Components returns the stack from bottom to top.
func (p *Pages) Components() []Component {
	out := make([]Component, len(p.stack))
	for i, e := range p.stack {
		out[i] = e.comp
	}
	return out
}

// Stack returns the names of the stacked components, bottom first.
func (p *Pages) Stack() []string {
	s := make([]string, len(p.stack))
	for i, e := range p.stack {
		s[i] = e.comp.Name()
	}
	return s
}

// Depth returns the current stack depth.
func (p *Pages) Depth() int {
	return len(p.stack)
}

// Reset stops every stacked component and leaves only c.
func (p *Pages) Reset(c Component) {
	for i := len(p.stack) - 1; i >= 0; i-- {
		p.stack[i].comp.Stop()
		p.RemovePage(p.stack[i].id)
	}
	p.stack = nil
	p.Push(c)
}

func isOverlay(c Component) bool {
	o, ok := c.(Overlay)
	return ok && o.Overlay()
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(p.Stack())
	}
}
