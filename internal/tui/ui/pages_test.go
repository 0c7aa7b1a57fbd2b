package ui

import (
	"reflect"
	"testing"

	"github.com/rivo/tview"
)

type fakePage struct {
	*tview.Box
	name    string
	overlay bool
	started int
	stopped int
}

func newFakePage(name string) *fakePage {
	return &fakePage{Box: tview.NewBox(), name: name}
}

func (f *fakePage) Name() string      { return f.name }
func (f *fakePage) Start()            { f.started++ }
func (f *fakePage) Stop()             { f.stopped++ }
func (f *fakePage) Hints() []MenuHint { return nil }
func (f *fakePage) Overlay() bool     { return f.overlay }

func TestPagesPushPop(t *testing.T) {
	p := NewPages()
	var changes [][]string
	p.SetOnChange(func(stack []string) { changes = append(changes, stack) })

	home, clients := newFakePage("Home"), newFakePage("Clients")
	p.Push(home)
	p.Push(clients)

	if got := p.Stack(); !reflect.DeepEqual(got, []string{"Home", "Clients"}) {
		t.Fatalf("Stack() = %v", got)
	}
	if home.started != 1 || clients.started != 1 {
		t.Errorf("started = %d, %d; want 1, 1", home.started, clients.started)
	}
	if p.Current() != clients {
		t.Error("Current() should be the last pushed page")
	}

	if popped := p.Pop(); popped != clients {
		t.Errorf("Pop() = %v, want clients", popped)
	}
	if clients.stopped != 1 {
		t.Errorf("clients stopped %d times, want 1", clients.stopped)
	}
	if p.Current() != home {
		t.Error("home should be current after pop")
	}
	if len(changes) != 3 {
		t.Errorf("onChange fired %d times, want 3", len(changes))
	}
}

func TestPagesPopKeepsLast(t *testing.T) {
	p := NewPages()
	home := newFakePage("Home")
	p.Push(home)
	if p.Pop() != nil {
		t.Error("Pop() on a single page should return nil")
	}
	if p.Depth() != 1 || home.stopped != 0 {
		t.Errorf("depth = %d, stopped = %d", p.Depth(), home.stopped)
	}
}

func TestPagesOverlayKeepsPageBelowVisible(t *testing.T) {
	p := NewPages()
	p.Push(newFakePage("Clients"))
	dialog := newFakePage("Confirm")
	dialog.overlay = true
	p.Push(dialog)

	if got := len(p.GetPageNames(true)); got != 2 {
		t.Errorf("visible pages = %d, want 2", got)
	}

	p.Push(newFakePage("Client form"))
	if got := len(p.GetPageNames(true)); got != 1 {
		t.Errorf("visible pages = %d, want 1", got)
	}
}

func TestPagesReplaceAndReset(t *testing.T) {
	p := NewPages()
	home, purchases, payments := newFakePage("Home"), newFakePage("Purchases"), newFakePage("Payments")
	p.Push(home)
	p.Push(purchases)
	p.Replace(payments)

	if got := p.Stack(); !reflect.DeepEqual(got, []string{"Home", "Payments"}) {
		t.Errorf("Stack() = %v", got)
	}
	if purchases.stopped != 1 {
		t.Error("replaced page should be stopped")
	}

	login := newFakePage("Login")
	p.Reset(login)
	if got := p.Stack(); !reflect.DeepEqual(got, []string{"Login"}) {
		t.Errorf("Stack() after Reset = %v", got)
	}
	if home.stopped != 1 || payments.stopped != 1 {
		t.Errorf("stopped = %d, %d; want 1, 1", home.stopped, payments.stopped)
	}
	if len(p.GetPageNames(false)) != 1 {
		t.Errorf("tview pages = %v", p.GetPageNames(false))
	}
}
