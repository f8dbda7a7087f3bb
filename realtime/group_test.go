package realtime_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/realtime"
)

func newSimFleet(t *testing.T, n int) ([]*fsmx.Machine[simCtx], []*simCtx) {
	t.Helper()
	machines := make([]*fsmx.Machine[simCtx], 0, n)
	ctxs := make([]*simCtx, 0, n)
	for i := 0; i < n; i++ {
		c := &simCtx{}
		m := newSimMachine(t, c)
		machines = append(machines, m)
		ctxs = append(ctxs, c)
	}
	return machines, ctxs
}

func TestGroup(t *testing.T) {
	t.Parallel()

	t.Run("ticks every member each tick", func(t *testing.T) {
		t.Parallel()
		machines, ctxs := newSimFleet(t, 3)
		g := realtime.NewGroup(machines, realtime.GroupConfig{TickRate: time.Millisecond, Workers: 2})

		require.NoError(t, g.Start(context.Background()))
		require.NoError(t, g.WaitForTicks(5, 5*time.Second))
		require.NoError(t, g.Stop())

		for i, c := range ctxs {
			assert.GreaterOrEqual(t, c.updates, 5, "machine %d fell behind the fleet", i)
			assert.False(t, machines[i].IsRunning())
		}
	})

	t.Run("skips members that stopped themselves", func(t *testing.T) {
		t.Parallel()
		quitter := &simCtx{}
		stopper := fsmx.New(quitter)
		require.NoError(t, stopper.AddState(fsmx.State[simCtx]{
			Name: "Sim",
			OnUpdate: func(m *fsmx.Machine[simCtx], c *simCtx) error {
				c.updates++
				if c.updates >= 3 {
					m.Stop()
				}
				return nil
			},
		}))
		runner := &simCtx{}
		machines := []*fsmx.Machine[simCtx]{stopper, newSimMachine(t, runner)}

		errs := make(chan error, 16)
		g := realtime.NewGroup(machines, realtime.GroupConfig{
			TickRate:    time.Millisecond,
			OnStepError: func(id string, err error) { errs <- fmt.Errorf("%s: %w", id, err) },
		})

		require.NoError(t, g.Start(context.Background()))
		require.NoError(t, g.WaitForTicks(8, 5*time.Second))
		require.NoError(t, g.Stop())

		assert.Equal(t, 3, quitter.updates, "a stopped member must not keep updating")
		assert.GreaterOrEqual(t, runner.updates, 8)
		assert.Empty(t, errs, "skipped members must not surface errors")
	})

	t.Run("rolls back when a member fails to start", func(t *testing.T) {
		t.Parallel()
		good := newSimMachine(t, &simCtx{})
		empty := fsmx.New(&simCtx{})
		g := realtime.NewGroup([]*fsmx.Machine[simCtx]{good, empty}, realtime.GroupConfig{})

		err := g.Start(context.Background())
		require.ErrorIs(t, err, fsmx.ErrNoStates)
		assert.False(t, good.IsRunning(), "members started before the failure must be stopped again")
	})

	t.Run("fails a second Start and tolerates repeated Stops", func(t *testing.T) {
		t.Parallel()
		machines, _ := newSimFleet(t, 1)
		g := realtime.NewGroup(machines, realtime.GroupConfig{TickRate: time.Millisecond})

		require.NoError(t, g.Start(context.Background()))
		require.ErrorIs(t, g.Start(context.Background()), realtime.ErrAlreadyStarted)
		require.NoError(t, g.Stop())
		require.NoError(t, g.Stop())
	})
}
