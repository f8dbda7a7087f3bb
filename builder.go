package fsmx

import "fmt"

// Builder provides a fluent API for declaring a machine's states and
// transitions in one expression. Declarations are recorded and applied by
// Build: states first, in declaration order, then transitions in
// declaration order. Wildcard declarations therefore expand over every
// declared state regardless of where they appear in the chain.
type Builder[C any] struct {
	ctx         *C
	opts        []Option
	initial     string
	states      []State[C]
	transitions []transitionDecl[C]
}

// StateBuilder configures one declared state and its outgoing transitions.
type StateBuilder[C any] struct {
	b   *Builder[C]
	idx int
}

type transitionKind int

const (
	transitionNormal transitionKind = iota
	transitionFromAll
	transitionToAll
)

type transitionDecl[C any] struct {
	kind  transitionKind
	from  string
	to    string
	guard PredicateGroup[C]
}

// NewBuilder creates a builder for a machine bound to ctx. Options are
// passed through to New at Build time.
func NewBuilder[C any](ctx *C, opts ...Option) *Builder[C] {
	return &Builder[C]{ctx: ctx, opts: opts}
}

// State declares a state, or retrieves the declaration if the name was
// already used, and returns a StateBuilder for configuring it.
func (b *Builder[C]) State(name string) *StateBuilder[C] {
	for i := range b.states {
		if b.states[i].Name == name {
			return &StateBuilder[C]{b: b, idx: i}
		}
	}
	b.states = append(b.states, State[C]{Name: name})
	return &StateBuilder[C]{b: b, idx: len(b.states) - 1}
}

// Initial names the state Start should adopt. Build moves it to the front
// of the registration order; no hook runs until Start.
func (b *Builder[C]) Initial(name string) *Builder[C] {
	b.initial = name
	return b
}

// Transition declares an edge between two named states.
func (b *Builder[C]) Transition(from, to string, preds ...Predicate[C]) *Builder[C] {
	b.transitions = append(b.transitions, transitionDecl[C]{
		kind: transitionNormal, from: from, to: to, guard: preds,
	})
	return b
}

// FromAll declares an edge into to from every declared state except to
// itself.
func (b *Builder[C]) FromAll(to string, preds ...Predicate[C]) *Builder[C] {
	b.transitions = append(b.transitions, transitionDecl[C]{
		kind: transitionFromAll, to: to, guard: preds,
	})
	return b
}

// ToAll declares an edge out of from into every declared state except from
// itself.
func (b *Builder[C]) ToAll(from string, preds ...Predicate[C]) *Builder[C] {
	b.transitions = append(b.transitions, transitionDecl[C]{
		kind: transitionToAll, from: from, guard: preds,
	})
	return b
}

// Build applies the recorded declarations to a fresh machine. The machine
// is returned stopped; call Start to begin evaluation.
func (b *Builder[C]) Build() (*Machine[C], error) {
	states := b.states
	if b.initial != "" {
		idx := -1
		for i := range states {
			if states[i].Name == b.initial {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("build: initial state %q: %w", b.initial, ErrUnknownState)
		}
		if idx > 0 {
			reordered := make([]State[C], 0, len(states))
			reordered = append(reordered, states[idx])
			reordered = append(reordered, states[:idx]...)
			reordered = append(reordered, states[idx+1:]...)
			states = reordered
		}
	}

	opts := make([]Option, 0, len(b.opts)+2)
	opts = append(opts, b.opts...)
	opts = append(opts, WithStateCapacity(len(states)), WithTransitionCapacity(len(b.transitions)))
	m := New(b.ctx, opts...)

	for i := range states {
		if err := m.AddState(states[i]); err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
	}
	for i := range b.transitions {
		decl := &b.transitions[i]
		var err error
		switch decl.kind {
		case transitionFromAll:
			err = m.AddTransitionFromAll(decl.to, decl.guard)
		case transitionToAll:
			err = m.AddTransitionToAll(decl.from, decl.guard)
		default:
			err = m.AddTransition(decl.from, decl.to, decl.guard)
		}
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
	}
	return m, nil
}

// OnEnter sets the state's enter hook.
func (sb *StateBuilder[C]) OnEnter(cb Callback[C]) *StateBuilder[C] {
	sb.b.states[sb.idx].OnEnter = cb
	return sb
}

// OnUpdate sets the state's update hook.
func (sb *StateBuilder[C]) OnUpdate(cb Callback[C]) *StateBuilder[C] {
	sb.b.states[sb.idx].OnUpdate = cb
	return sb
}

// OnExit sets the state's exit hook.
func (sb *StateBuilder[C]) OnExit(cb Callback[C]) *StateBuilder[C] {
	sb.b.states[sb.idx].OnExit = cb
	return sb
}

// To declares an edge from this state to target.
func (sb *StateBuilder[C]) To(target string, preds ...Predicate[C]) *StateBuilder[C] {
	sb.b.transitions = append(sb.b.transitions, transitionDecl[C]{
		kind: transitionNormal, from: sb.b.states[sb.idx].Name, to: target, guard: preds,
	})
	return sb
}
