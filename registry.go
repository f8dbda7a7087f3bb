package fsmx

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

// AddState registers a copy of s. Registration order is significant: Start
// adopts the first registered state when none has been established, and
// transition scans run in registration order. States may be added while the
// machine is running; they take part in evaluation from the next Step.
func (m *Machine[C]) AddState(s State[C]) error {
	if s.Name == "" {
		return fmt.Errorf("add state: %w", ErrEmptyStateName)
	}
	if m.stateIndex(s.Name) >= 0 {
		return fmt.Errorf("add state %q: %w", s.Name, ErrDuplicateState)
	}
	var stored State[C]
	if err := deepcopy.Copy(&stored, s); err != nil {
		return fmt.Errorf("add state %q: %w: %v", s.Name, ErrDescriptorCopy, err)
	}
	m.states = append(m.states, stored)
	m.logger.Debugf("machine %s: state %s registered", m.id, s.Name)
	return nil
}

// AddTransition registers a guarded edge from one named state to another.
// Both endpoints must already be registered. The guard is copied, so the
// caller's PredicateGroup can be reused or mutated afterwards. Self
// transitions (from == to) are allowed and run OnExit then OnEnter when
// they fire.
func (m *Machine[C]) AddTransition(from, to string, guard PredicateGroup[C]) error {
	if from == "" || to == "" {
		return fmt.Errorf("add transition: %w", ErrEmptyStateName)
	}
	if m.stateIndex(from) < 0 {
		return fmt.Errorf("add transition from %q: %w", from, ErrUnknownState)
	}
	if m.stateIndex(to) < 0 {
		return fmt.Errorf("add transition to %q: %w", to, ErrUnknownState)
	}
	if err := guard.validate(); err != nil {
		return fmt.Errorf("add transition %s -> %s: %w", from, to, err)
	}
	if i := m.transitionIndex(from, to); i >= 0 {
		m.logger.Debugf("machine %s: transition %s -> %s duplicates the edge at index %d, which scans first", m.id, from, to, i)
	}
	dup, err := cloneGuard(guard)
	if err != nil {
		return fmt.Errorf("add transition %s -> %s: %w", from, to, err)
	}
	m.transitions = append(m.transitions, transition[C]{From: from, To: to, Guard: dup})
	m.logger.Debugf("machine %s: transition %s -> %s registered (%d predicates)", m.id, from, to, len(guard))
	return nil
}

// AddTransitionFromAll registers one edge into to from every state known at
// call time, skipping to itself. Each expanded edge receives its own copy
// of the guard. States registered later are not connected; call again after
// adding states if they should be.
func (m *Machine[C]) AddTransitionFromAll(to string, guard PredicateGroup[C]) error {
	if to == "" {
		return fmt.Errorf("add transition from all: %w", ErrEmptyStateName)
	}
	if m.stateIndex(to) < 0 {
		return fmt.Errorf("add transition from all to %q: %w", to, ErrUnknownState)
	}
	if err := guard.validate(); err != nil {
		return fmt.Errorf("add transition from all to %q: %w", to, err)
	}
	batch := make([]transition[C], 0, len(m.states))
	for i := range m.states {
		from := m.states[i].Name
		if from == to {
			continue
		}
		dup, err := cloneGuard(guard)
		if err != nil {
			return fmt.Errorf("add transition from all to %q: %w", to, err)
		}
		batch = append(batch, transition[C]{From: from, To: to, Guard: dup})
	}
	m.transitions = append(m.transitions, batch...)
	m.logger.Debugf("machine %s: %d transitions registered into %s", m.id, len(batch), to)
	return nil
}

// AddTransitionToAll registers one edge out of from into every state known
// at call time, skipping from itself. Each expanded edge receives its own
// copy of the guard.
func (m *Machine[C]) AddTransitionToAll(from string, guard PredicateGroup[C]) error {
	if from == "" {
		return fmt.Errorf("add transition to all: %w", ErrEmptyStateName)
	}
	if m.stateIndex(from) < 0 {
		return fmt.Errorf("add transition to all from %q: %w", from, ErrUnknownState)
	}
	if err := guard.validate(); err != nil {
		return fmt.Errorf("add transition to all from %q: %w", from, err)
	}
	batch := make([]transition[C], 0, len(m.states))
	for i := range m.states {
		to := m.states[i].Name
		if to == from {
			continue
		}
		dup, err := cloneGuard(guard)
		if err != nil {
			return fmt.Errorf("add transition to all from %q: %w", from, err)
		}
		batch = append(batch, transition[C]{From: from, To: to, Guard: dup})
	}
	m.transitions = append(m.transitions, batch...)
	m.logger.Debugf("machine %s: %d transitions registered out of %s", m.id, len(batch), from)
	return nil
}

// transitionIndex returns the registry index of the first transition with
// the given endpoints, or -1.
func (m *Machine[C]) transitionIndex(from, to string) int {
	for i := range m.transitions {
		if m.transitions[i].From == from && m.transitions[i].To == to {
			return i
		}
	}
	return -1
}

// cloneGuard copies a predicate group so registered transitions stay
// independent of the caller's slice. Empty groups are stored as nil.
func cloneGuard[C any](guard PredicateGroup[C]) (PredicateGroup[C], error) {
	if len(guard) == 0 {
		return nil, nil
	}
	var dup PredicateGroup[C]
	if err := deepcopy.Copy(&dup, guard); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDescriptorCopy, err)
	}
	return dup, nil
}
