package testutil

import (
	"go.uber.org/atomic"

	"github.com/comalice/fsmx"
)

// LogHook returns a callback that appends entry to log and succeeds.
func LogHook[C any](log *CallLog, entry string) fsmx.Callback[C] {
	return func(*fsmx.Machine[C], *C) error {
		log.Append(entry)
		return nil
	}
}

// FailHook returns a callback that appends entry to log and fails with err.
func FailHook[C any](log *CallLog, entry string, err error) fsmx.Callback[C] {
	return func(*fsmx.Machine[C], *C) error {
		log.Append(entry)
		return err
	}
}

// Chain returns a callback running cbs in order, stopping at the first
// error.
func Chain[C any](cbs ...fsmx.Callback[C]) fsmx.Callback[C] {
	return func(m *fsmx.Machine[C], ctx *C) error {
		for _, cb := range cbs {
			if err := cb(m, ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

// Pass returns a predicate that always passes.
func Pass[C any]() fsmx.Predicate[C] {
	return func(*fsmx.Machine[C], *C) (bool, error) {
		return true, nil
	}
}

// Fail returns a predicate that never passes.
func Fail[C any]() fsmx.Predicate[C] {
	return func(*fsmx.Machine[C], *C) (bool, error) {
		return false, nil
	}
}

// Erroring returns a predicate that fails with err.
func Erroring[C any](err error) fsmx.Predicate[C] {
	return func(*fsmx.Machine[C], *C) (bool, error) {
		return false, err
	}
}

// PassWhen returns a predicate gated on flag, safe to flip from any
// goroutine.
func PassWhen[C any](flag *atomic.Bool) fsmx.Predicate[C] {
	return func(*fsmx.Machine[C], *C) (bool, error) {
		return flag.Load(), nil
	}
}

// Counting returns a predicate that passes according to pass and counts
// its own evaluations, safe to read from any goroutine.
func Counting[C any](calls *atomic.Int64, pass bool) fsmx.Predicate[C] {
	return func(*fsmx.Machine[C], *C) (bool, error) {
		calls.Inc()
		return pass, nil
	}
}
