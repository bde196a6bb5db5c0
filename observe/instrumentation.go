package observe

// Instrumentation bundles the telemetry a component emits.
//
// Contract:
//   - Concurrency: safe for concurrent use; fields are never nil when built
//     through NewInstrumentation or Noop.
//   - Ownership: shared by reference between components.
type Instrumentation struct {
	Tracer  Tracer
	Metrics Metrics
	Logger  Logger
}

// NewInstrumentation derives an Instrumentation from an Observer.
func NewInstrumentation(obs Observer) (*Instrumentation, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return &Instrumentation{
		Tracer:  NewTracer(obs.Tracer()),
		Metrics: metrics,
		Logger:  obs.Logger(),
	}, nil
}

// Noop returns an Instrumentation that records nothing.
func Noop() *Instrumentation {
	return &Instrumentation{
		Tracer:  newNoopTracer(),
		Metrics: noopMetrics{},
		Logger:  NopLogger(),
	}
}

// OrNoop returns i, or Noop when i is nil. Nil fields are filled with no-op
// implementations.
func (i *Instrumentation) OrNoop() *Instrumentation {
	if i == nil {
		return Noop()
	}
	out := *i
	if out.Tracer == nil {
		out.Tracer = newNoopTracer()
	}
	if out.Metrics == nil {
		out.Metrics = noopMetrics{}
	}
	if out.Logger == nil {
		out.Logger = NopLogger()
	}
	return &out
}
