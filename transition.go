package fsmx

import "fmt"

// Predicate is a guard condition evaluated during Step. It receives the
// machine and its context object and reports whether the transition it
// guards may fire. A non-nil error aborts the Step with no transition taken.
type Predicate[C any] func(m *Machine[C], ctx *C) (bool, error)

// PredicateGroup is an ordered conjunction of predicates. A transition's
// guard passes only when every predicate reports true; evaluation runs in
// order and stops at the first false or error. An empty (or nil) group
// passes unconditionally.
type PredicateGroup[C any] []Predicate[C]

// When builds a PredicateGroup from the given predicates, preserving order.
func When[C any](preds ...Predicate[C]) PredicateGroup[C] {
	return preds
}

// Eval evaluates the group against m in order. It returns true when all
// predicates pass, false on the first predicate that reports false, and the
// predicate's error on the first failure. Predicates after a false or an
// error are not evaluated.
func (g PredicateGroup[C]) Eval(m *Machine[C], ctx *C) (bool, error) {
	for _, p := range g {
		ok, err := p(m, ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// validate rejects groups containing nil predicates. Registration calls this
// before copying the group into the registry.
func (g PredicateGroup[C]) validate() error {
	for i, p := range g {
		if p == nil {
			return fmt.Errorf("predicate %d: %w", i, ErrNilPredicate)
		}
	}
	return nil
}

// transition is a registered edge between two states. Fields are exported so
// the registry can deep-copy descriptors; the type itself stays private
// because transitions are only created through the Add* operations.
type transition[C any] struct {
	From  string
	To    string
	Guard PredicateGroup[C]
}
