package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func runeEvent(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestHandleEventPrefersView(t *testing.T) {
	r := NewRegistry()
	var got string
	r.AddGlobal(Rune('d', "global", func() { got = "global" }))
	r.AddView("Clients", Rune('d', "delete", func() { got = "view" }))

	if !r.HandleEvent("Clients", runeEvent('d')) {
		t.Fatal("expected a handler to run")
	}
	if got != "view" {
		t.Errorf("got %q, want view binding", got)
	}

	got = ""
	if !r.HandleEvent("Products", runeEvent('d')) {
		t.Fatal("expected the global handler to run")
	}
	if got != "global" {
		t.Errorf("got %q, want global binding", got)
	}
}

func TestHandleEventNoMatch(t *testing.T) {
	r := NewRegistry()
	r.AddGlobal(Rune('q', "quit", func() { t.Fatal("should not run") }))
	if r.HandleEvent("Clients", runeEvent('x')) {
		t.Error("expected no match")
	}
}

func TestSpecialKeyMatch(t *testing.T) {
	r := NewRegistry()
	ran := false
	r.AddView("Clients", Key(tcell.KeyEnter, "Enter", "open", func() { ran = true }))

	if r.HandleEvent("Clients", runeEvent('\r')) {
		t.Error("a rune event must not match a special key")
	}
	if !r.HandleEvent("Clients", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)) || !ran {
		t.Error("Enter binding did not run")
	}
}

func TestHintsOrderAndDedup(t *testing.T) {
	r := NewRegistry()
	r.AddGlobal(Rune('?', "help", func() {}))
	r.AddGlobal(Rune('d', "unused", func() {}))
	r.AddView("Clients", Rune('n', "new", func() {}))
	del := Rune('d', "delete", func() {})
	del.Danger = true
	r.AddView("Clients", del)
	hidden := Rune('j', "down", func() {})
	hidden.Visible = false
	r.AddView("Clients", hidden)

	hints := r.Hints("Clients")
	want := []string{"n", "d", "?"}
	if len(hints) != len(want) {
		t.Fatalf("got %d hints, want %d: %+v", len(hints), len(want), hints)
	}
	for i, k := range want {
		if hints[i].Key != k {
			t.Errorf("hint %d = %q, want %q", i, hints[i].Key, k)
		}
	}
	if !hints[1].Danger || hints[1].Description != "delete" {
		t.Errorf("view binding should shadow global d: %+v", hints[1])
	}
}

func TestClearView(t *testing.T) {
	r := NewRegistry()
	r.AddView("Clients", Rune('n', "new", func() {}))
	r.ClearView("Clients")
	if len(r.Hints("Clients")) != 0 {
		t.Error("expected no hints after ClearView")
	}
}
