// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"github.com/comalice/fsmx"
)

type benchCtx struct {
	Ticks int
}

func pass(*fsmx.Machine[benchCtx], *benchCtx) (bool, error)  { return true, nil }
func block(*fsmx.Machine[benchCtx], *benchCtx) (bool, error) { return false, nil }

// GenChain creates a machine of n states cycling s0 -> s1 -> ... -> s0 with
// unguarded transitions, so every Step fires.
func GenChain(n int) (*fsmx.Machine[benchCtx], error) {
	if n < 2 {
		n = 2
	}
	m := fsmx.New(&benchCtx{}, fsmx.WithStateCapacity(n), fsmx.WithTransitionCapacity(n))
	for i := 0; i < n; i++ {
		if err := m.AddState(fsmx.State[benchCtx]{Name: fmt.Sprintf("s%d", i)}); err != nil {
			return nil, err
		}
	}
	for i := 0; i < n; i++ {
		from := fmt.Sprintf("s%d", i)
		to := fmt.Sprintf("s%d", (i+1)%n)
		if err := m.AddTransition(from, to, nil); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// GenFanout creates one hub state with width outgoing transitions whose
// guards never pass, so every Step scans the full fan without firing.
func GenFanout(width int) (*fsmx.Machine[benchCtx], error) {
	m := fsmx.New(&benchCtx{}, fsmx.WithStateCapacity(width+1), fsmx.WithTransitionCapacity(width))
	if err := m.AddState(fsmx.State[benchCtx]{Name: "hub"}); err != nil {
		return nil, err
	}
	for i := 0; i < width; i++ {
		name := fmt.Sprintf("t%d", i)
		if err := m.AddState(fsmx.State[benchCtx]{Name: name}); err != nil {
			return nil, err
		}
		if err := m.AddTransition("hub", name, fsmx.When(block)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// GenGuards creates two states joined by one transition carrying arity
// predicates; all pass except the last, so every Step evaluates the whole
// group without firing.
func GenGuards(arity int) (*fsmx.Machine[benchCtx], error) {
	if arity < 1 {
		arity = 1
	}
	m := fsmx.New(&benchCtx{})
	if err := m.AddState(fsmx.State[benchCtx]{Name: "a"}); err != nil {
		return nil, err
	}
	if err := m.AddState(fsmx.State[benchCtx]{Name: "b"}); err != nil {
		return nil, err
	}
	guard := make(fsmx.PredicateGroup[benchCtx], 0, arity)
	for i := 0; i < arity-1; i++ {
		guard = append(guard, pass)
	}
	guard = append(guard, block)
	if err := m.AddTransition("a", "b", guard); err != nil {
		return nil, err
	}
	return m, nil
}

// GenStates creates a machine with n hookless states and no transitions.
func GenStates(n int) (*fsmx.Machine[benchCtx], error) {
	m := fsmx.New(&benchCtx{}, fsmx.WithStateCapacity(n))
	for i := 0; i < n; i++ {
		if err := m.AddState(fsmx.State[benchCtx]{Name: fmt.Sprintf("s%d", i)}); err != nil {
			return nil, err
		}
	}
	return m, nil
}
