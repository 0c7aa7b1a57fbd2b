package status

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/frigo/internal/bus"
)

// State represents the load state of one list view.
type State string

const (
	Idle    State = "IDLE"
	Loading State = "LOADING"
	Loaded  State = "LOADED"
	Error   State = "ERROR"
)

// validTransitions defines allowed state transitions.
var validTransitions = map[State][]State{
	Idle:    {Loading},
	Loading: {Loaded, Error},
	Loaded:  {Loading},
	Error:   {Loading},
}

// Machine tracks and enforces the load state of a single list view.
type Machine struct {
	mu      sync.RWMutex
	entity  string
	current State
	bus     *bus.Bus
}

// NewMachine creates a new state machine for the given entity starting in Idle.
func NewMachine(entity string, b *bus.Bus) *Machine {
	return &Machine{
		entity:  entity,
		current: Idle,
		bus:     b,
	}
}

// Entity returns the entity name this machine tracks.
func (m *Machine) Entity() string {
	return m.entity
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("%s: invalid transition from %s to %s", m.entity, m.current, to)
	}
	from := m.current
	m.current = to
	m.bus.Emit(bus.ListStateChanged, StatusChange{
		Entity: m.entity,
		From:   from,
		To:     to,
	})
	return nil
}

// Begin moves the machine into Loading unless it is already there.
// It reports whether a transition happened.
func (m *Machine) Begin() bool {
	if m.Current() == Loading {
		return false
	}
	return m.Transition(Loading) == nil
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	Entity string
	From   State
	To     State
}
