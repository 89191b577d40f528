package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/kle310/EV-ChargeMate/internal/models"
)

// Settled plug states the machine tracks. Transitional feed statuses
// (Preparing, Finishing, Unavailable, Unknown) never move the machine; they
// only refresh the observation timestamp.
const (
	StateUnknown   = "unknown"
	StateAvailable = "available"
	StateBusy      = "busy"
	StateOffline   = "offline"
	StateFaulted   = "faulted"
)

// Transition events
const (
	EventFree      = "free"
	EventOccupy    = "occupy"
	EventGoOffline = "go_offline"
	EventFault     = "fault"
)

// PlugState snapshot of one station's tracked plug.
type PlugState struct {
	StationID    string    `json:"station_id"`
	PlugType     *string   `json:"plug_type,omitempty"`
	CurrentState string    `json:"state"`
	Since        time.Time `json:"since"`
	ObservedAt   time.Time `json:"observed_at"`
}

// Machine tracks one station's settled plug state and fires a callback on
// genuine transitions, which drives the websocket push.
type Machine struct {
	mu            sync.RWMutex
	stationID     string
	fsm           *fsm.FSM
	state         *PlugState
	onStateChange func(stationID, from, to string)
}

// NewMachine creates a plug-state machine for a station.
func NewMachine(stationID, initialState string, onStateChange func(stationID, from, to string)) *Machine {
	if initialState == "" {
		initialState = StateUnknown
	}

	m := &Machine{
		stationID:     stationID,
		onStateChange: onStateChange,
		state: &PlugState{
			StationID:    stationID,
			CurrentState: initialState,
			Since:        time.Now(),
		},
	}

	settled := []string{StateUnknown, StateAvailable, StateBusy, StateOffline, StateFaulted}

	m.fsm = fsm.NewFSM(
		initialState,
		fsm.Events{
			// the feed is noisy: any settled state may follow any other
			{Name: EventFree, Src: settled, Dst: StateAvailable},
			{Name: EventOccupy, Src: settled, Dst: StateBusy},
			{Name: EventGoOffline, Src: settled, Dst: StateOffline},
			{Name: EventFault, Src: settled, Dst: StateFaulted},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if m.onStateChange != nil && e.Src != e.Dst {
					m.onStateChange(m.stationID, e.Src, e.Dst)
				}
			},
		},
	)

	return m
}

// CurrentState returns the machine's settled state.
func (m *Machine) CurrentState() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Current()
}

// GetState returns a copy of the full plug state.
func (m *Machine) GetState() *PlugState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stateCopy := *m.state
	stateCopy.CurrentState = m.fsm.Current()
	return &stateCopy
}

// Observe applies one arbitrated sample. Transitional statuses only refresh
// ObservedAt; settled statuses trigger the matching event when the state
// actually changes.
func (m *Machine) Observe(status models.StatusCode, plugType *string, observedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.ObservedAt = observedAt
	if plugType != nil {
		m.state.PlugType = plugType
	}

	if status.IsTransitional() {
		return nil
	}

	event, target := eventFor(status)
	if m.fsm.Current() == target {
		return nil
	}

	if err := m.fsm.Event(context.Background(), event); err != nil {
		return fmt.Errorf("trigger event %s: %w", event, err)
	}

	m.state.CurrentState = m.fsm.Current()
	m.state.Since = observedAt
	return nil
}

func eventFor(status models.StatusCode) (event, target string) {
	switch status {
	case models.StatusAvailable:
		return EventFree, StateAvailable
	case models.StatusBusy:
		return EventOccupy, StateBusy
	case models.StatusOffline:
		return EventGoOffline, StateOffline
	default: // Faulted is the only settled status left
		return EventFault, StateFaulted
	}
}

// Manager holds one machine per tracked station.
type Manager struct {
	mu       sync.RWMutex
	machines map[string]*Machine
	onChange func(stationID, from, to string)
}

// NewManager creates the machine manager.
func NewManager(onChange func(stationID, from, to string)) *Manager {
	return &Manager{
		machines: make(map[string]*Machine),
		onChange: onChange,
	}
}

// GetOrCreate returns the station's machine, creating it on first sight.
func (m *Manager) GetOrCreate(stationID, initialState string) *Machine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if machine, ok := m.machines[stationID]; ok {
		return machine
	}

	machine := NewMachine(stationID, initialState, m.onChange)
	m.machines[stationID] = machine
	return machine
}

// Get returns the station's machine if it exists.
func (m *Manager) Get(stationID string) (*Machine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	machine, ok := m.machines[stationID]
	return machine, ok
}

// GetAllStates snapshots every tracked station.
func (m *Manager) GetAllStates() map[string]*PlugState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make(map[string]*PlugState, len(m.machines))
	for stationID, machine := range m.machines {
		states[stationID] = machine.GetState()
	}
	return states
}
