package fsmx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/testutil"
)

func TestStep(t *testing.T) {
	t.Parallel()

	t.Run("fails when the machine is not running", func(t *testing.T) {
		t.Parallel()
		m := fsmx.New(&world{})
		addStates(t, m, "Idle")

		fired, err := m.Step()
		require.ErrorIs(t, err, fsmx.ErrNotRunning)
		assert.False(t, fired)
		assert.Zero(t, m.Steps())
	})

	t.Run("runs the update hook every step", func(t *testing.T) {
		t.Parallel()
		updates := 0
		m := fsmx.New(&world{})
		require.NoError(t, m.AddState(fsmx.State[world]{
			Name:     "Idle",
			OnUpdate: func(*fsmx.Machine[world], *world) error { updates++; return nil },
		}))
		require.NoError(t, m.Start())

		for i := 0; i < 3; i++ {
			fired, err := m.Step()
			require.NoError(t, err)
			assert.False(t, fired)
		}
		assert.Equal(t, 3, updates)
		assert.EqualValues(t, 3, m.Steps())
	})

	t.Run("fires an unguarded transition immediately", func(t *testing.T) {
		t.Parallel()
		m := fsmx.New(&world{})
		addStates(t, m, "Idle", "Walk")
		require.NoError(t, m.AddTransition("Idle", "Walk", nil))
		require.NoError(t, m.Start())

		fired, err := m.Step()
		require.NoError(t, err)
		assert.True(t, fired)
		assert.Equal(t, "Walk", m.CurrentState())
	})

	t.Run("fires the first matching transition in registration order", func(t *testing.T) {
		t.Parallel()
		m := fsmx.New(&world{})
		addStates(t, m, "Idle", "A", "B")
		require.NoError(t, m.AddTransition("Idle", "B", fsmx.When(alwaysPass)))
		require.NoError(t, m.AddTransition("Idle", "A", fsmx.When(alwaysPass)))
		require.NoError(t, m.Start())

		fired, err := m.Step()
		require.NoError(t, err)
		require.True(t, fired)
		assert.Equal(t, "B", m.CurrentState())
	})

	t.Run("fires at most one transition per step", func(t *testing.T) {
		t.Parallel()
		m := fsmx.New(&world{})
		addStates(t, m, "A", "B", "C")
		require.NoError(t, m.AddTransition("A", "B", nil))
		require.NoError(t, m.AddTransition("B", "C", nil))
		require.NoError(t, m.Start())

		fired, err := m.Step()
		require.NoError(t, err)
		require.True(t, fired)
		assert.Equal(t, "B", m.CurrentState(), "chained transitions need separate steps")

		fired, err = m.Step()
		require.NoError(t, err)
		require.True(t, fired)
		assert.Equal(t, "C", m.CurrentState())
	})

	t.Run("ignores transitions leaving other states", func(t *testing.T) {
		t.Parallel()
		evals := 0
		counting := func(*fsmx.Machine[world], *world) (bool, error) { evals++; return true, nil }

		m := fsmx.New(&world{})
		addStates(t, m, "Idle", "Walk")
		require.NoError(t, m.AddTransition("Walk", "Idle", fsmx.When(counting)))
		require.NoError(t, m.Start())

		fired, err := m.Step()
		require.NoError(t, err)
		assert.False(t, fired)
		assert.Zero(t, evals, "guards of non-matching transitions must not run")
	})

	t.Run("evaluates a predicate group as a short-circuit conjunction", func(t *testing.T) {
		t.Parallel()
		evals := 0
		counting := func(*fsmx.Machine[world], *world) (bool, error) { evals++; return true, nil }

		m := fsmx.New(&world{})
		addStates(t, m, "Idle", "Walk")
		require.NoError(t, m.AddTransition("Idle", "Walk", fsmx.When(neverPass, counting)))
		require.NoError(t, m.Start())

		fired, err := m.Step()
		require.NoError(t, err)
		assert.False(t, fired)
		assert.Zero(t, evals, "predicates after a false must not run")

		require.NoError(t, m.AddTransition("Idle", "Walk", fsmx.When(alwaysPass, counting)))
		fired, err = m.Step()
		require.NoError(t, err)
		assert.True(t, fired)
		assert.Equal(t, 1, evals)
	})

	t.Run("runs a self transition through exit and enter", func(t *testing.T) {
		t.Parallel()
		log := &testutil.CallLog{}
		m := fsmx.New(&world{})
		require.NoError(t, m.AddState(fsmx.State[world]{
			Name:    "Idle",
			OnEnter: testutil.LogHook[world](log, "enter"),
			OnExit:  testutil.LogHook[world](log, "exit"),
		}))
		require.NoError(t, m.AddTransition("Idle", "Idle", nil))
		require.NoError(t, m.Start())
		require.Equal(t, []string{"enter"}, log.Entries())

		fired, err := m.Step()
		require.NoError(t, err)
		require.True(t, fired)
		assert.Equal(t, []string{"enter", "exit", "enter"}, log.Entries())
		assert.Equal(t, "Idle", m.CurrentState())
	})

	t.Run("scans from the state the update hook moved to", func(t *testing.T) {
		t.Parallel()
		m := fsmx.New(&world{})
		require.NoError(t, m.AddState(fsmx.State[world]{
			Name: "Idle",
			OnUpdate: func(m *fsmx.Machine[world], _ *world) error {
				return m.SetState("Walk")
			},
		}))
		addStates(t, m, "Walk", "Done")
		require.NoError(t, m.AddTransition("Walk", "Done", nil))
		require.NoError(t, m.Start())

		fired, err := m.Step()
		require.NoError(t, err)
		require.True(t, fired)
		assert.Equal(t, "Done", m.CurrentState())
	})

	t.Run("hands hooks the machine and its context", func(t *testing.T) {
		t.Parallel()
		w := &world{}
		m := fsmx.New(w)
		require.NoError(t, m.AddState(fsmx.State[world]{
			Name: "Idle",
			OnUpdate: func(inner *fsmx.Machine[world], ctx *world) error {
				assert.Same(t, m, inner)
				assert.Same(t, w, ctx)
				assert.Equal(t, "Idle", inner.CurrentState())
				return nil
			},
		}))
		require.NoError(t, m.Start())
		_, err := m.Step()
		require.NoError(t, err)
	})
}

func TestStepErrors(t *testing.T) {
	t.Parallel()

	t.Run("update error aborts before the scan", func(t *testing.T) {
		t.Parallel()
		evals := 0
		counting := func(*fsmx.Machine[world], *world) (bool, error) { evals++; return true, nil }

		m := fsmx.New(&world{})
		require.NoError(t, m.AddState(fsmx.State[world]{
			Name:     "Idle",
			OnUpdate: func(*fsmx.Machine[world], *world) error { return errBoom },
		}))
		addStates(t, m, "Walk")
		require.NoError(t, m.AddTransition("Idle", "Walk", fsmx.When(counting)))
		require.NoError(t, m.Start())

		fired, err := m.Step()
		require.ErrorIs(t, err, errBoom)
		assert.False(t, fired)
		assert.Zero(t, evals)
		assert.Equal(t, "Idle", m.CurrentState())
	})

	t.Run("guard error aborts the scan with nothing fired", func(t *testing.T) {
		t.Parallel()
		evals := 0
		counting := func(*fsmx.Machine[world], *world) (bool, error) { evals++; return true, nil }
		erroring := func(*fsmx.Machine[world], *world) (bool, error) { return false, errBoom }

		m := fsmx.New(&world{})
		addStates(t, m, "Idle", "Walk", "Run")
		require.NoError(t, m.AddTransition("Idle", "Walk", fsmx.When(erroring)))
		require.NoError(t, m.AddTransition("Idle", "Run", fsmx.When(counting)))
		require.NoError(t, m.Start())

		fired, err := m.Step()
		require.ErrorIs(t, err, errBoom)
		assert.False(t, fired)
		assert.Equal(t, "Idle", m.CurrentState())
		assert.Zero(t, evals, "later candidates must not be evaluated after a guard error")
	})

	t.Run("exit error leaves the current state in place", func(t *testing.T) {
		t.Parallel()
		enters := 0
		m := fsmx.New(&world{})
		require.NoError(t, m.AddState(fsmx.State[world]{
			Name:   "Idle",
			OnExit: func(*fsmx.Machine[world], *world) error { return errBoom },
		}))
		require.NoError(t, m.AddState(fsmx.State[world]{
			Name:    "Walk",
			OnEnter: func(*fsmx.Machine[world], *world) error { enters++; return nil },
		}))
		require.NoError(t, m.AddTransition("Idle", "Walk", nil))
		require.NoError(t, m.Start())

		fired, err := m.Step()
		require.ErrorIs(t, err, errBoom)
		assert.False(t, fired)
		assert.Equal(t, "Idle", m.CurrentState())
		assert.Zero(t, enters, "the target must not be entered after an exit error")
	})

	t.Run("enter error reports after the move", func(t *testing.T) {
		t.Parallel()
		m := fsmx.New(&world{})
		addStates(t, m, "Idle")
		require.NoError(t, m.AddState(fsmx.State[world]{
			Name:    "Broken",
			OnEnter: func(*fsmx.Machine[world], *world) error { return errBoom },
		}))
		require.NoError(t, m.AddTransition("Idle", "Broken", nil))
		require.NoError(t, m.Start())

		fired, err := m.Step()
		require.ErrorIs(t, err, errBoom)
		assert.True(t, fired, "the transition committed before the enter hook failed")
		assert.Equal(t, "Broken", m.CurrentState())
	})
}

// TestStaminaScenario walks the canonical two-state fixture: three steps of
// regeneration, a handoff to Walk, three steps of drain, and the handoff
// back, asserting the exact hook sequence throughout.
func TestStaminaScenario(t *testing.T) {
	t.Parallel()

	st := &testutil.Stamina{Level: 0, Regen: 1, Drain: 1}
	log := &testutil.CallLog{}
	m, err := testutil.NewStaminaMachine(st, log, 0, 3)
	require.NoError(t, err)

	require.NoError(t, m.Start())
	require.Equal(t, []string{"enter:Idle"}, log.Entries())

	// Three updates to reach the walk threshold; the transition fires on
	// the third step, before Walk's own update ever runs.
	for i := 0; i < 2; i++ {
		fired, err := m.Step()
		require.NoError(t, err)
		require.False(t, fired)
	}
	fired, err := m.Step()
	require.NoError(t, err)
	require.True(t, fired)
	require.Equal(t, "Walk", m.CurrentState())
	require.Equal(t, 3, st.Level)

	// Three updates to drain back to zero, then the handoff to Idle.
	for i := 0; i < 2; i++ {
		fired, err := m.Step()
		require.NoError(t, err)
		require.False(t, fired)
	}
	fired, err = m.Step()
	require.NoError(t, err)
	require.True(t, fired)
	require.Equal(t, "Idle", m.CurrentState())
	require.Equal(t, 0, st.Level)

	assert.Equal(t, []string{
		"enter:Idle",
		"update:Idle", "update:Idle", "update:Idle",
		"exit:Idle", "enter:Walk",
		"update:Walk", "update:Walk", "update:Walk",
		"exit:Walk", "enter:Idle",
	}, log.Entries())
	assert.EqualValues(t, 6, m.Steps())
}
