package testutil

import "github.com/comalice/fsmx"

// Stamina is the context for the idle/walk fixture machine.
type Stamina struct {
	Level int
	Regen int
	Drain int
}

// NewStaminaMachine builds the two-state fixture used across the test
// suites: Idle regenerates stamina each step and hands off to Walk once
// Level reaches hi; Walk drains it and falls back to Idle once Level
// drops to lo. Hook invocations are recorded in log as "enter:<state>",
// "update:<state>", and "exit:<state>".
func NewStaminaMachine(st *Stamina, log *CallLog, lo, hi int, opts ...fsmx.Option) (*fsmx.Machine[Stamina], error) {
	b := fsmx.NewBuilder(st, opts...)
	b.State("Idle").
		OnEnter(LogHook[Stamina](log, "enter:Idle")).
		OnUpdate(func(_ *fsmx.Machine[Stamina], s *Stamina) error {
			s.Level += s.Regen
			log.Append("update:Idle")
			return nil
		}).
		OnExit(LogHook[Stamina](log, "exit:Idle")).
		To("Walk", func(_ *fsmx.Machine[Stamina], s *Stamina) (bool, error) {
			return s.Level >= hi, nil
		})
	b.State("Walk").
		OnEnter(LogHook[Stamina](log, "enter:Walk")).
		OnUpdate(func(_ *fsmx.Machine[Stamina], s *Stamina) error {
			s.Level -= s.Drain
			log.Append("update:Walk")
			return nil
		}).
		OnExit(LogHook[Stamina](log, "exit:Walk")).
		To("Idle", func(_ *fsmx.Machine[Stamina], s *Stamina) (bool, error) {
			return s.Level <= lo, nil
		})
	return b.Initial("Idle").Build()
}
