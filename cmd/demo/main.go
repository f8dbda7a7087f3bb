package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/realtime"
	"github.com/comalice/fsmx/viz"
)

type config struct {
	TickRate    time.Duration `env:"DEMO_TICK_RATE" envDefault:"250ms"`
	RunFor      time.Duration `env:"DEMO_RUN_FOR" envDefault:"15s"`
	RedTicks    int           `env:"DEMO_RED_TICKS" envDefault:"8"`
	GreenTicks  int           `env:"DEMO_GREEN_TICKS" envDefault:"6"`
	YellowTicks int           `env:"DEMO_YELLOW_TICKS" envDefault:"2"`
	Debug       bool          `env:"DEMO_DEBUG"`
	MetricsAddr string        `env:"DEMO_METRICS_ADDR"`
	DotFile     string        `env:"DEMO_DOT_FILE"`
}

// road is the shared context of the traffic light: ticks spent in the
// current phase.
type road struct {
	Elapsed int
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	logger := zap.NewNop().Sugar()
	if cfg.Debug {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		defer dev.Sync()
		logger = dev.Sugar()
	}

	reg := prometheus.NewRegistry()
	metrics := fsmx.NewMetrics(reg)
	if cfg.MetricsAddr != "" {
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				logger.Errorf("metrics server: %v", err)
			}
		}()
	}

	m, err := buildTrafficLight(cfg, logger, metrics)
	if err != nil {
		return err
	}

	rt := realtime.NewRuntime(m, realtime.Config{TickRate: cfg.TickRate}, realtime.WithLogger(logger))
	if err := rt.Start(context.Background()); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-time.After(cfg.RunFor):
		fmt.Println("\nDemo complete.")
	case <-sig:
		fmt.Println("\nShutting down gracefully...")
	}

	if err := rt.Stop(); err != nil {
		return err
	}

	snap := m.Snapshot()
	fmt.Printf("final state %s after %d steps, %d ticks\n", snap.Current, snap.Steps, rt.Ticks())
	if cfg.DotFile != "" {
		if err := os.WriteFile(cfg.DotFile, []byte(viz.ExportDOT(snap)), 0o644); err != nil {
			return fmt.Errorf("write dot file: %w", err)
		}
		fmt.Println("wrote", cfg.DotFile)
	}
	return nil
}

func buildTrafficLight(cfg config, logger *zap.SugaredLogger, metrics *fsmx.Metrics) (*fsmx.Machine[road], error) {
	hold := func(n int) fsmx.Predicate[road] {
		return func(_ *fsmx.Machine[road], r *road) (bool, error) {
			return r.Elapsed >= n, nil
		}
	}
	announce := func(m *fsmx.Machine[road], r *road) error {
		r.Elapsed = 0
		fmt.Printf("light: %s\n", m.CurrentState())
		return nil
	}
	tick := func(_ *fsmx.Machine[road], r *road) error {
		r.Elapsed++
		return nil
	}

	b := fsmx.NewBuilder(&road{},
		fsmx.WithID("traffic-light"),
		fsmx.WithLogger(logger),
		fsmx.WithMetrics(metrics),
		fsmx.WithObserver(func(ev fsmx.TransitionEvent) {
			logger.Debugf("machine %s: %s -> %s at step %d", ev.Machine, ev.From, ev.To, ev.Step)
		}),
	)
	b.State("Red").OnEnter(announce).OnUpdate(tick).To("Green", hold(cfg.RedTicks))
	b.State("Green").OnEnter(announce).OnUpdate(tick).To("Yellow", hold(cfg.GreenTicks))
	b.State("Yellow").OnEnter(announce).OnUpdate(tick).To("Red", hold(cfg.YellowTicks))
	return b.Initial("Red").Build()
}
