package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/comalice/fsmx"
)

const defaultGroupWorkers = 4

// GroupConfig configures a Group.
type GroupConfig struct {
	// TickRate is the shared interval between fleet Steps. Default
	// 16.667ms.
	TickRate time.Duration

	// Workers bounds how many machines step concurrently. Default 4.
	Workers int

	// OnStepError, when set, receives every Step error together with the
	// ID of the machine that produced it.
	OnStepError func(machineID string, err error)
}

func (cfg *GroupConfig) applyDefaults() {
	if cfg.TickRate == 0 {
		cfg.TickRate = 16667 * time.Microsecond
	}
	if cfg.Workers == 0 {
		cfg.Workers = defaultGroupWorkers
	}
}

// Group ticks a fleet of machines from one shared ticker. Each tick, every
// machine is stepped once on a bounded worker pool; a tick does not end
// until every machine has stepped, so no machine ever sees two concurrent
// Steps. Members that have been stopped are skipped quietly.
type Group[C any] struct {
	machines []*fsmx.Machine[C]
	logger   *zap.SugaredLogger

	tickRate    time.Duration
	workers     int
	onStepError func(string, error)

	pool   pond.Pool
	ticker *time.Ticker
	ticks  atomic.Uint64

	tickCtx    context.Context
	tickCancel context.CancelFunc
	stopped    chan struct{}
	started    atomic.Bool
}

// NewGroup creates a group over machines. The slice is not copied; do not
// mutate it after handing it over.
func NewGroup[C any](machines []*fsmx.Machine[C], cfg GroupConfig, opts ...Option) *Group[C] {
	cfg.applyDefaults()
	s := newSettings(opts)
	return &Group[C]{
		machines:    machines,
		logger:      s.logger,
		tickRate:    cfg.TickRate,
		workers:     cfg.Workers,
		onStepError: cfg.OnStepError,
	}
}

// Start starts every member machine and begins ticking the fleet. If any
// member fails to start, the ones already started are stopped again and
// the error is returned.
func (g *Group[C]) Start(ctx context.Context) error {
	if !g.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	for i, m := range g.machines {
		if err := m.Start(); err != nil {
			for j := 0; j < i; j++ {
				g.machines[j].Stop()
			}
			g.started.Store(false)
			return fmt.Errorf("start machine %s: %w", m.ID(), err)
		}
	}

	g.pool = pond.NewPool(g.workers)
	g.tickCtx, g.tickCancel = context.WithCancel(ctx)
	g.ticker = time.NewTicker(g.tickRate)
	g.stopped = make(chan struct{})

	go g.tickLoop()

	g.logger.Debugf("group of %d machines started (tick rate %v, %d workers)", len(g.machines), g.tickRate, g.workers)
	return nil
}

// Stop halts the ticker, waits for the in-flight tick to finish, shuts the
// worker pool down, and stops every member machine.
func (g *Group[C]) Stop() error {
	if !g.started.CompareAndSwap(true, false) {
		return nil
	}
	g.tickCancel()
	g.ticker.Stop()
	<-g.stopped

	g.pool.StopAndWait()
	for _, m := range g.machines {
		m.Stop()
	}
	g.logger.Debugf("group of %d machines stopped after %d ticks", len(g.machines), g.ticks.Load())
	return nil
}

// Ticks returns how many fleet ticks have completed.
func (g *Group[C]) Ticks() uint64 {
	return g.ticks.Load()
}

// WaitForTicks blocks until the completed tick count reaches n or the
// timeout elapses.
func (g *Group[C]) WaitForTicks(n uint64, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	poll := g.tickRate / 4
	if poll < 100*time.Microsecond {
		poll = 100 * time.Microsecond
	}
	for g.ticks.Load() < n {
		if time.Now().After(deadline) {
			return fmt.Errorf("reached tick %d of %d after %v", g.ticks.Load(), n, timeout)
		}
		time.Sleep(poll)
	}
	return nil
}

func (g *Group[C]) tickLoop() {
	defer close(g.stopped)

	for {
		select {
		case <-g.tickCtx.Done():
			return
		case <-g.ticker.C:
			g.tick()
			g.ticks.Inc()
		}
	}
}

// tick steps every machine once and waits for the whole fleet to finish.
func (g *Group[C]) tick() {
	var wg sync.WaitGroup
	wg.Add(len(g.machines))
	for _, m := range g.machines {
		g.pool.Submit(func() {
			defer wg.Done()
			g.stepMachine(m)
		})
	}
	wg.Wait()
}

func (g *Group[C]) stepMachine(m *fsmx.Machine[C]) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Errorf("machine %s: tick %d panicked: %v", m.ID(), g.ticks.Load(), r)
		}
	}()
	if _, err := m.Step(); err != nil {
		if errors.Is(err, fsmx.ErrNotRunning) {
			return
		}
		g.logger.Errorf("machine %s: step failed: %v", m.ID(), err)
		if g.onStepError != nil {
			g.onStepError(m.ID(), err)
		}
	}
}
