package fsmx

import (
	"fmt"
	"time"
)

// Step runs one poll cycle: the current state's OnUpdate hook, then a scan
// of the registered transitions in registration order. The first transition
// leaving the current state whose guard passes is fired; at most one fires
// per Step. fired reports whether a transition committed (the current state
// index moved).
//
// Hook and guard errors abort the cycle and are returned wrapped. An
// OnUpdate error aborts before any transition is considered. A guard error
// aborts the scan with no transition fired. An OnExit error leaves the
// current state unchanged. An OnEnter error is reported after the move, so
// fired is true and CurrentState already names the target.
//
// When the machine is stopped, or no current state has been established,
// Step returns (false, ErrNotRunning) without touching any hook or the
// context object.
func (m *Machine[C]) Step() (bool, error) {
	if !m.running || m.current < 0 {
		return false, ErrNotRunning
	}
	if m.metrics != nil {
		start := time.Now()
		defer func() { m.metrics.observeStep(m.id, time.Since(start)) }()
		m.metrics.incStep(m.id)
	}
	m.steps++

	cur := &m.states[m.current]
	if cur.OnUpdate != nil {
		if err := cur.OnUpdate(m, m.context); err != nil {
			m.countCallbackError(hookUpdate)
			m.logger.Errorf("machine %s: update hook for %s failed: %v", m.id, cur.Name, err)
			return false, fmt.Errorf("update %q: %w", cur.Name, err)
		}
	}

	// The update hook may have called SetState; scan from wherever the
	// machine is now.
	fromName := m.states[m.current].Name
	for i := range m.transitions {
		t := &m.transitions[i]
		if t.From != fromName {
			continue
		}
		ok, err := t.Guard.Eval(m, m.context)
		if err != nil {
			m.countCallbackError(hookGuard)
			m.logger.Errorf("machine %s: guard %s -> %s failed: %v", m.id, t.From, t.To, err)
			return false, fmt.Errorf("guard %s -> %s: %w", t.From, t.To, err)
		}
		if ok {
			return m.fire(t)
		}
	}
	return false, nil
}

// fire commits the transition t: OnExit of the current state, index move,
// OnEnter of the target, observer notification. An OnExit error aborts with
// the current state unchanged.
func (m *Machine[C]) fire(t *transition[C]) (bool, error) {
	toIdx := m.stateIndex(t.To)
	if toIdx < 0 {
		return false, fmt.Errorf("fire %s -> %s: %w", t.From, t.To, ErrUnknownState)
	}
	cur := &m.states[m.current]
	if cur.OnExit != nil {
		if err := cur.OnExit(m, m.context); err != nil {
			m.countCallbackError(hookExit)
			m.logger.Errorf("machine %s: exit hook for %s failed: %v", m.id, cur.Name, err)
			return false, fmt.Errorf("exit %q: %w", cur.Name, err)
		}
	}
	m.current = toIdx
	m.countTransition(t.From, t.To)
	m.logger.Debugf("machine %s: %s -> %s (step %d)", m.id, t.From, t.To, m.steps)

	// Observers are notified even when the enter hook fails: the move has
	// already committed.
	err := m.enter(toIdx)
	m.notifyTransition(t.From, t.To)
	if err != nil {
		return true, err
	}
	return true, nil
}
