// Package realtime drives fsmx machines from a fixed-rate tick loop.
//
// The core engine is poll-driven and single-threaded: the host calls Step
// whenever it wants the machine to make progress. This package supplies
// that host loop for programs that want wall-clock ticking rather than
// driving Step themselves, and makes the machine safe to share with other
// goroutines in the process.
//
// # Example Usage
//
//	machine := fsmx.New(&world)
//	// ... register states and transitions ...
//	rt := realtime.NewRuntime(machine, realtime.Config{
//		TickRate: 16667 * time.Microsecond, // 60 ticks per second
//	})
//	rt.Start(ctx)
//	rt.Apply(func(m *fsmx.Machine[World], w *World) { w.Input = jump })
//	...
//	rt.Stop()
//
// # Mutation Batching
//
// Goroutines other than the tick loop must not touch the machine or its
// context directly. Instead they queue mutations with Apply; the tick loop
// drains the queue at the start of each tick, in submission order, and
// then advances the machine one Step. Given the same sequence of Apply
// calls, the machine always executes the same way.
//
// # Fleets
//
// A Group ticks many machines from one shared ticker, dispatching each
// machine's Step to a bounded worker pool. Machines never see concurrent
// Steps; the pool runs different machines in parallel, not one machine
// twice.
//
// # Use Cases
//
//   - Game loops (fixed-rate simulation)
//   - Device and process supervisors (periodic reconciliation)
//   - Soak tests (many machines under one scheduler)
package realtime
