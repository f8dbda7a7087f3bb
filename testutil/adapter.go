package testutil

import (
	"context"
	"time"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/realtime"
)

// Driver abstracts how a machine is advanced, so the same scenario can run
// against manual stepping and against the realtime tick loop.
type Driver interface {
	Start(ctx context.Context) error
	Advance(steps int) error
	Stop() error
	CurrentState() string
}

// ManualDriver advances a machine by calling Step directly.
type ManualDriver[C any] struct {
	m *fsmx.Machine[C]
}

// NewManualDriver wraps machine in a Driver that steps it synchronously.
func NewManualDriver[C any](machine *fsmx.Machine[C]) *ManualDriver[C] {
	return &ManualDriver[C]{m: machine}
}

func (d *ManualDriver[C]) Start(context.Context) error {
	return d.m.Start()
}

func (d *ManualDriver[C]) Advance(steps int) error {
	for i := 0; i < steps; i++ {
		if _, err := d.m.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (d *ManualDriver[C]) Stop() error {
	d.m.Stop()
	return nil
}

func (d *ManualDriver[C]) CurrentState() string {
	return d.m.CurrentState()
}

// RealtimeDriver advances a machine by waiting out ticks of a realtime
// runtime.
type RealtimeDriver[C any] struct {
	rt       *realtime.Runtime[C]
	tickRate time.Duration
}

// NewRealtimeDriver wraps machine in a Driver backed by a realtime runtime
// at the given tick rate.
func NewRealtimeDriver[C any](machine *fsmx.Machine[C], tickRate time.Duration) *RealtimeDriver[C] {
	return &RealtimeDriver[C]{
		rt:       realtime.NewRuntime(machine, realtime.Config{TickRate: tickRate}),
		tickRate: tickRate,
	}
}

func (d *RealtimeDriver[C]) Start(ctx context.Context) error {
	return d.rt.Start(ctx)
}

// Advance waits until the runtime has processed the requested number of
// additional ticks. The deadline is generous so slow CI machines do not
// produce false failures.
func (d *RealtimeDriver[C]) Advance(steps int) error {
	target := d.rt.Ticks() + uint64(steps)
	timeout := time.Second + 10*time.Duration(steps)*d.tickRate
	return d.rt.WaitForTicks(target, timeout)
}

func (d *RealtimeDriver[C]) Stop() error {
	return d.rt.Stop()
}

func (d *RealtimeDriver[C]) CurrentState() string {
	return d.rt.CurrentState()
}
