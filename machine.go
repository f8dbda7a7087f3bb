// Package fsmx implements a minimal poll-driven finite-state machine engine.
//
// A Machine holds an ordered registry of named states and guarded
// transitions plus a reference to a caller-owned context object of type C.
// The host program drives the machine by calling Step from its own loop;
// the engine performs no scheduling, spawns no goroutines, and queues no
// events. Each Step runs the current state's update hook, scans that
// state's outgoing transitions in registration order, and fires the first
// one whose predicates all pass.
//
// A Machine is not safe for concurrent use. Drive it from a single
// goroutine, or use the realtime subpackage which serializes access for
// you.
package fsmx

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Machine is a poll-driven finite-state machine over a context type C. The
// zero value is not usable; create machines with New.
type Machine[C any] struct {
	id      string
	logger  *zap.SugaredLogger
	metrics *Metrics

	// context is caller-owned. The machine never copies, mutates, or
	// releases it; hooks and predicates receive the same pointer the
	// caller handed to New.
	context *C

	states      []State[C]
	transitions []transition[C]

	// current indexes states, or is -1 before any state has been
	// established. Stop leaves it untouched so a later Start resumes in
	// place.
	current int
	running bool
	steps   uint64

	observers []func(TransitionEvent)
}

// New creates an empty, stopped machine bound to ctx. The pointer may be
// nil when the hooks need no shared data. Options configure identity,
// logging, metrics, observers, and registry capacity.
func New[C any](ctx *C, opts ...Option) *Machine[C] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	m := &Machine[C]{
		id:      o.id,
		logger:  o.logger,
		context: ctx,
		current: -1,
	}
	if m.id == "" {
		m.id = uuid.NewString()
	}
	if m.logger == nil {
		m.logger = zap.NewNop().Sugar()
	}
	if o.stateCap > 0 {
		m.states = make([]State[C], 0, o.stateCap)
	}
	if o.transitionCap > 0 {
		m.transitions = make([]transition[C], 0, o.transitionCap)
	}
	if o.metrics != nil {
		m.metrics = o.metrics
	}
	m.observers = append(m.observers, o.observers...)
	return m
}

// ID returns the machine's identifier, either the one supplied via WithID
// or a generated UUID.
func (m *Machine[C]) ID() string { return m.id }

// Context returns the context pointer the machine was created with.
func (m *Machine[C]) Context() *C { return m.context }

// CurrentState returns the name of the current state, or "" when no state
// has been established yet.
func (m *Machine[C]) CurrentState() string {
	if m.current < 0 || m.current >= len(m.states) {
		return ""
	}
	return m.states[m.current].Name
}

// IsRunning reports whether Step will evaluate transitions.
func (m *Machine[C]) IsRunning() bool { return m.running }

// StateCount returns the number of registered states.
func (m *Machine[C]) StateCount() int { return len(m.states) }

// TransitionCount returns the number of registered transitions, counting
// every edge produced by wildcard registration individually.
func (m *Machine[C]) TransitionCount() int { return len(m.transitions) }

// Steps returns how many times Step has run, whether or not a transition
// fired.
func (m *Machine[C]) Steps() uint64 { return m.steps }

// SetState makes the named state current and runs its OnEnter hook. It does
// not change the running flag: a stopped machine stays stopped and a
// running one keeps running. No OnExit runs for the state being left.
func (m *Machine[C]) SetState(name string) error {
	idx := m.stateIndex(name)
	if idx < 0 {
		return fmt.Errorf("set state %q: %w", name, ErrUnknownState)
	}
	m.current = idx
	m.logger.Debugf("machine %s: state set to %s", m.id, name)
	return m.enter(idx)
}

// Start enables Step evaluation. If no current state has been established
// it adopts the first registered state and runs its OnEnter hook. Starting
// an already-running machine is a no-op; restarting a stopped machine
// resumes in the state it stopped in without re-entering it.
func (m *Machine[C]) Start() error {
	if len(m.states) == 0 {
		return fmt.Errorf("start: %w", ErrNoStates)
	}
	if m.running {
		return nil
	}
	entered := false
	if m.current < 0 {
		m.current = 0
		entered = true
	}
	m.running = true
	m.logger.Debugf("machine %s: started in state %s", m.id, m.states[m.current].Name)
	if entered {
		return m.enter(m.current)
	}
	return nil
}

// Stop disables Step evaluation. The current state keeps its OnExit unrun
// and remains current, so introspection still reports it and Start resumes
// from it. Stopping a stopped machine is a no-op.
func (m *Machine[C]) Stop() {
	if !m.running {
		return
	}
	m.running = false
	m.logger.Debugf("machine %s: stopped in state %s", m.id, m.CurrentState())
}

// enter runs the OnEnter hook of states[idx], if any.
func (m *Machine[C]) enter(idx int) error {
	s := &m.states[idx]
	if s.OnEnter == nil {
		return nil
	}
	if err := s.OnEnter(m, m.context); err != nil {
		m.countCallbackError(hookEnter)
		m.logger.Errorf("machine %s: enter hook for %s failed: %v", m.id, s.Name, err)
		return fmt.Errorf("enter %q: %w", s.Name, err)
	}
	return nil
}

// stateIndex returns the registry index of the named state, or -1.
func (m *Machine[C]) stateIndex(name string) int {
	for i := range m.states {
		if m.states[i].Name == name {
			return i
		}
	}
	return -1
}
