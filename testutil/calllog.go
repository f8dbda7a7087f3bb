// Package testutil provides fixtures and drivers shared by the fsmx test
// suites: an ordered hook-call recorder, canned hooks and predicates, the
// stamina fixture machine, and runtime adapters that let one scenario run
// under both manual stepping and the realtime tick loop.
package testutil

import "sync"

// CallLog records hook invocations in order. All methods are safe for
// concurrent use and tolerate a nil receiver, so fixtures can run without
// a log attached.
type CallLog struct {
	mu      sync.Mutex
	entries []string
}

// Append records one entry.
func (l *CallLog) Append(entry string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of the recorded entries in order.
func (l *CallLog) Entries() []string {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *CallLog) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Reset clears the log.
func (l *CallLog) Reset() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}
