package status

import (
	"testing"
	"time"

	"github.com/matheus3301/frigo/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine("clients", nil)
	if m.Current() != Idle {
		t.Errorf("initial state = %s, want IDLE", m.Current())
	}
	if m.Entity() != "clients" {
		t.Errorf("entity = %q, want clients", m.Entity())
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []State
	}{
		{"load ok", []State{Loading, Loaded}},
		{"load fails", []State{Loading, Error}},
		{"manual refresh", []State{Loading, Loaded, Loading, Loaded}},
		{"retry after error", []State{Loading, Error, Loading, Loaded}},
		{"error again", []State{Loading, Loaded, Loading, Error}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine("products", nil)
			for _, to := range tt.path {
				if err := m.Transition(to); err != nil {
					t.Fatalf("Transition(%s -> %s) error = %v", m.Current(), to, err)
				}
			}
			if want := tt.path[len(tt.path)-1]; m.Current() != want {
				t.Errorf("state = %s, want %s", m.Current(), want)
			}
		})
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []State
		bad  State
	}{
		{"idle to loaded", nil, Loaded},
		{"idle to error", nil, Error},
		{"loading to loading", []State{Loading}, Loading},
		{"loaded to error", []State{Loading, Loaded}, Error},
		{"error to loaded", []State{Loading, Error}, Loaded},
		{"back to idle", []State{Loading, Loaded}, Idle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine("payments", nil)
			for _, to := range tt.path {
				if err := m.Transition(to); err != nil {
					t.Fatal(err)
				}
			}
			before := m.Current()
			if err := m.Transition(tt.bad); err == nil {
				t.Errorf("Transition(%s -> %s) should fail", before, tt.bad)
			}
			if m.Current() != before {
				t.Errorf("state changed to %s after rejected transition", m.Current())
			}
		})
	}
}

func TestBegin(t *testing.T) {
	m := NewMachine("reminders", nil)
	if !m.Begin() {
		t.Fatal("Begin() from IDLE should transition")
	}
	if m.Begin() {
		t.Error("Begin() while LOADING should not transition")
	}
	if m.Current() != Loading {
		t.Errorf("state = %s, want LOADING", m.Current())
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe(10, "list.")
	defer unsub()

	m := NewMachine("clients", b)
	if err := m.Transition(Loading); err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-ch:
		if evt.Kind != bus.ListStateChanged {
			t.Errorf("kind = %q, want %s", evt.Kind, bus.ListStateChanged)
		}
		sc, ok := evt.Payload.(StatusChange)
		if !ok {
			t.Fatalf("payload type = %T, want StatusChange", evt.Payload)
		}
		if sc.Entity != "clients" || sc.From != Idle || sc.To != Loading {
			t.Errorf("payload = %+v, want clients IDLE->LOADING", sc)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for state change event")
	}
}
