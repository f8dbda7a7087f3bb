package fsmx

import "go.uber.org/zap"

// Option configures a Machine at construction time.
type Option func(*options)

type options struct {
	id            string
	logger        *zap.SugaredLogger
	metrics       *Metrics
	observers     []func(TransitionEvent)
	stateCap      int
	transitionCap int
}

func defaultOptions() options {
	return options{}
}

// WithID sets the machine identifier used in logs, metrics labels, and
// snapshots. Machines without an explicit ID get a generated UUID.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithLogger attaches a logger. Machines without one log nowhere.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics attaches a Metrics collector. The same collector can be
// shared by any number of machines; series are labeled by machine ID.
func WithMetrics(metrics *Metrics) Option {
	return func(o *options) { o.metrics = metrics }
}

// WithObserver registers a function called after every committed
// transition. Observers run synchronously inside Step, in registration
// order, so they should return quickly.
func WithObserver(fn func(TransitionEvent)) Option {
	return func(o *options) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

// WithStateCapacity pre-sizes the state registry for machines whose shape
// is known up front.
func WithStateCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.stateCap = n
		}
	}
}

// WithTransitionCapacity pre-sizes the transition registry.
func WithTransitionCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.transitionCap = n
		}
	}
}
