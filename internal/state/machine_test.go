package state

import (
	"testing"
	"time"

	"github.com/kle310/EV-ChargeMate/internal/models"
)

func TestObserveTransitionsAndCallback(t *testing.T) {
	var transitions []string
	m := NewMachine("153420", "", func(stationID, from, to string) {
		transitions = append(transitions, from+"->"+to)
	})

	now := time.Now()
	if err := m.Observe(models.StatusAvailable, nil, now); err != nil {
		t.Fatalf("observe available: %v", err)
	}
	if m.CurrentState() != StateAvailable {
		t.Errorf("state = %s, want available", m.CurrentState())
	}

	if err := m.Observe(models.StatusBusy, nil, now.Add(time.Minute)); err != nil {
		t.Fatalf("observe busy: %v", err)
	}
	if m.CurrentState() != StateBusy {
		t.Errorf("state = %s, want busy", m.CurrentState())
	}

	want := []string{"unknown->available", "available->busy"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition[%d] = %s, want %s", i, transitions[i], want[i])
		}
	}
}

func TestObserveSameStateNoCallback(t *testing.T) {
	calls := 0
	m := NewMachine("153420", StateAvailable, func(string, string, string) { calls++ })

	now := time.Now()
	for i := 0; i < 3; i++ {
		if err := m.Observe(models.StatusAvailable, nil, now.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("observe: %v", err)
		}
	}
	if calls != 0 {
		t.Errorf("expected no callbacks for repeated state, got %d", calls)
	}
}

func TestObserveTransitionalOnlyRefreshesTimestamp(t *testing.T) {
	m := NewMachine("153420", StateBusy, nil)

	observed := time.Now().Add(5 * time.Minute)
	if err := m.Observe(models.StatusPreparing, nil, observed); err != nil {
		t.Fatalf("observe preparing: %v", err)
	}

	if m.CurrentState() != StateBusy {
		t.Errorf("transitional sample moved the machine to %s", m.CurrentState())
	}
	if !m.GetState().ObservedAt.Equal(observed) {
		t.Error("transitional sample should refresh ObservedAt")
	}
}

func TestManagerGetOrCreate(t *testing.T) {
	mgr := NewManager(nil)

	a := mgr.GetOrCreate("153420", "")
	b := mgr.GetOrCreate("153420", StateBusy)
	if a != b {
		t.Error("GetOrCreate should return the existing machine")
	}

	if _, ok := mgr.Get("2DWE-13"); ok {
		t.Error("unexpected machine for untracked station")
	}

	mgr.GetOrCreate("2DWE-13", StateOffline)
	states := mgr.GetAllStates()
	if len(states) != 2 {
		t.Fatalf("expected 2 tracked stations, got %d", len(states))
	}
	if states["2DWE-13"].CurrentState != StateOffline {
		t.Errorf("initial state = %s, want offline", states["2DWE-13"].CurrentState)
	}
}
