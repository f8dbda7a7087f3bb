package fsmx

import "time"

// Snapshot is a serializable view of a machine's registry and runtime
// state, taken at a point in time. It is an export format for inspection
// and visualization; machines cannot be reconstructed from it. The
// caller-owned context object is not included.
type Snapshot struct {
	MachineID   string               `json:"machineID" yaml:"machineID"`
	Running     bool                 `json:"running" yaml:"running"`
	Current     string               `json:"current,omitempty" yaml:"current,omitempty"`
	Steps       uint64               `json:"steps" yaml:"steps"`
	States      []StateSnapshot      `json:"states" yaml:"states"`
	Transitions []TransitionSnapshot `json:"transitions,omitempty" yaml:"transitions,omitempty"`
	Timestamp   time.Time            `json:"timestamp" yaml:"timestamp"`
}

// StateSnapshot records one registered state and which hooks it carries.
type StateSnapshot struct {
	Name     string `json:"name" yaml:"name"`
	OnEnter  bool   `json:"onEnter,omitempty" yaml:"onEnter,omitempty"`
	OnUpdate bool   `json:"onUpdate,omitempty" yaml:"onUpdate,omitempty"`
	OnExit   bool   `json:"onExit,omitempty" yaml:"onExit,omitempty"`
}

// TransitionSnapshot records one registered edge and its guard arity.
type TransitionSnapshot struct {
	From       string `json:"from" yaml:"from"`
	To         string `json:"to" yaml:"to"`
	Predicates int    `json:"predicates,omitempty" yaml:"predicates,omitempty"`
}

// Snapshot captures the machine's current shape. States and transitions
// appear in registration order.
func (m *Machine[C]) Snapshot() Snapshot {
	snap := Snapshot{
		MachineID:   m.id,
		Running:     m.running,
		Current:     m.CurrentState(),
		Steps:       m.steps,
		States:      make([]StateSnapshot, 0, len(m.states)),
		Transitions: make([]TransitionSnapshot, 0, len(m.transitions)),
		Timestamp:   time.Now().UTC(),
	}
	for i := range m.states {
		s := &m.states[i]
		snap.States = append(snap.States, StateSnapshot{
			Name:     s.Name,
			OnEnter:  s.OnEnter != nil,
			OnUpdate: s.OnUpdate != nil,
			OnExit:   s.OnExit != nil,
		})
	}
	for i := range m.transitions {
		t := &m.transitions[i]
		snap.Transitions = append(snap.Transitions, TransitionSnapshot{
			From:       t.From,
			To:         t.To,
			Predicates: len(t.Guard),
		})
	}
	return snap
}
