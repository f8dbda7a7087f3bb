package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/comalice/fsmx"
)

var (
	// ErrAlreadyStarted is returned by Start when the runtime is running.
	ErrAlreadyStarted = errors.New("runtime already started")

	// ErrQueueFull is returned by Apply when the pending mutation queue
	// has reached its capacity.
	ErrQueueFull = errors.New("mutation queue full")
)

// Mutation is a deferred change to a machine or its context, queued with
// Apply and executed by the tick loop before the next Step.
type Mutation[C any] func(m *fsmx.Machine[C], ctx *C)

// Config configures a Runtime or a Group.
type Config struct {
	// TickRate is the fixed interval between Steps. Default 16.667ms
	// (60 ticks per second).
	TickRate time.Duration

	// MaxPending caps the mutation queue. Default 1024.
	MaxPending int

	// OnStepError, when set, receives every error returned by Step. Errors
	// are logged either way; the tick loop always keeps going.
	OnStepError func(err error)
}

func (cfg *Config) applyDefaults() {
	if cfg.TickRate == 0 {
		cfg.TickRate = 16667 * time.Microsecond // Default 60 ticks/sec
	}
	if cfg.MaxPending == 0 {
		cfg.MaxPending = 1024
	}
}

// Option configures a Runtime or Group beyond its Config.
type Option func(*settings)

type settings struct {
	logger *zap.SugaredLogger
}

// WithLogger attaches a logger to the tick loop.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *settings) { s.logger = logger }
}

func newSettings(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	return s
}

// Runtime owns one machine and steps it at a fixed rate. All access to the
// machine from other goroutines goes through Apply; introspection methods
// on the Runtime are safe to call at any time.
type Runtime[C any] struct {
	machine *fsmx.Machine[C]
	logger  *zap.SugaredLogger

	tickRate    time.Duration
	ticker      *time.Ticker
	ticks       atomic.Uint64
	onStepError func(error)

	// mu serializes machine access between the tick loop and the
	// introspection methods.
	mu sync.Mutex

	// Mutation batching
	pending []Mutation[C]
	batchMu sync.Mutex

	// Control
	tickCtx    context.Context
	tickCancel context.CancelFunc
	stopped    chan struct{}
	started    atomic.Bool
}

// NewRuntime creates a runtime for machine. The machine should be fully
// registered but not started; Start takes care of that.
func NewRuntime[C any](machine *fsmx.Machine[C], cfg Config, opts ...Option) *Runtime[C] {
	cfg.applyDefaults()
	s := newSettings(opts)
	return &Runtime[C]{
		machine:     machine,
		logger:      s.logger,
		tickRate:    cfg.TickRate,
		onStepError: cfg.OnStepError,
		pending:     make([]Mutation[C], 0, cfg.MaxPending),
	}
}

// Start begins tick-based execution. It starts the underlying machine,
// then ticks it until Stop is called or ctx is canceled.
func (rt *Runtime[C]) Start(ctx context.Context) error {
	if !rt.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	if err := rt.machine.Start(); err != nil {
		rt.started.Store(false)
		return fmt.Errorf("start machine %s: %w", rt.machine.ID(), err)
	}

	rt.tickCtx, rt.tickCancel = context.WithCancel(ctx)
	rt.ticker = time.NewTicker(rt.tickRate)
	rt.stopped = make(chan struct{})

	go rt.tickLoop()

	rt.logger.Debugf("runtime for machine %s started (tick rate %v)", rt.machine.ID(), rt.tickRate)
	return nil
}

// Stop halts the tick loop, waits for it to exit, and stops the machine.
// The machine keeps its current state, so the runtime can be started
// again.
func (rt *Runtime[C]) Stop() error {
	if !rt.started.CompareAndSwap(true, false) {
		return nil
	}
	rt.tickCancel()
	rt.ticker.Stop()

	// Wait for tick loop to exit
	<-rt.stopped

	rt.mu.Lock()
	rt.machine.Stop()
	rt.mu.Unlock()
	rt.logger.Debugf("runtime for machine %s stopped after %d ticks", rt.machine.ID(), rt.ticks.Load())
	return nil
}

// Apply queues a mutation for the next tick. Mutations run on the tick
// goroutine in submission order, before Step, so they may touch the
// machine and its context freely.
func (rt *Runtime[C]) Apply(fn Mutation[C]) error {
	if fn == nil {
		return nil
	}
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	if len(rt.pending) >= cap(rt.pending) {
		return ErrQueueFull
	}
	rt.pending = append(rt.pending, fn)
	return nil
}

// Ticks returns how many ticks have completed.
func (rt *Runtime[C]) Ticks() uint64 {
	return rt.ticks.Load()
}

// WaitForTicks blocks until the total completed tick count reaches n or
// the timeout elapses.
func (rt *Runtime[C]) WaitForTicks(n uint64, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	poll := rt.tickRate / 4
	if poll < 100*time.Microsecond {
		poll = 100 * time.Microsecond
	}
	for rt.ticks.Load() < n {
		if time.Now().After(deadline) {
			return fmt.Errorf("reached tick %d of %d after %v", rt.ticks.Load(), n, timeout)
		}
		time.Sleep(poll)
	}
	return nil
}

// CurrentState returns the machine's current state name. Safe to call from
// any goroutine.
func (rt *Runtime[C]) CurrentState() string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.machine.CurrentState()
}

// Snapshot captures the machine's shape and state between ticks. Safe to
// call from any goroutine.
func (rt *Runtime[C]) Snapshot() fsmx.Snapshot {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.machine.Snapshot()
}

// Machine returns the underlying machine. While the runtime is running it
// must only be touched from inside a Mutation; direct use is safe once
// Stop has returned.
func (rt *Runtime[C]) Machine() *fsmx.Machine[C] {
	return rt.machine
}
