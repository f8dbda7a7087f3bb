package fsmx

// Callback is a lifecycle hook attached to a state. It receives the machine
// it runs on and the machine's context object. A non-nil error aborts the
// current Step and is returned to the caller; the engine never retries.
type Callback[C any] func(m *Machine[C], ctx *C) error

// State describes one named state and its optional lifecycle hooks. All
// fields are copied when the state is registered, so a State value can be
// reused or mutated freely afterwards without affecting the machine.
type State[C any] struct {
	// Name identifies the state. It must be unique within a machine and
	// non-empty.
	Name string

	// OnEnter runs when the state becomes current: after a transition into
	// it, after SetState, and for the initial state adopted by Start.
	OnEnter Callback[C]

	// OnUpdate runs at the start of every Step while the state is current,
	// before any transition is evaluated.
	OnUpdate Callback[C]

	// OnExit runs when a transition leaves the state, before the current
	// state changes. Stop does not run it.
	OnExit Callback[C]
}
