package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/loyalnest/service-bootstrap/internal/domain"
	"github.com/loyalnest/service-bootstrap/internal/platform/logging"
	"github.com/loyalnest/service-bootstrap/internal/platform/telemetry"
	"github.com/loyalnest/service-bootstrap/internal/ports"
)

// Compile-time interface check.
var _ ports.HealthAggregator = (*Aggregator)(nil)

var (
	errNilChecker     = errors.New("health checker is nil")
	errEmptyName      = errors.New("health checker name is empty")
	errDuplicateProbe = errors.New("probe already registered")
)

// Aggregator is a thread-safe, ordered collection of probes. Probes are
// registered at startup and evaluated concurrently on every Check. Results
// are never cached.
type Aggregator struct {
	mu      sync.RWMutex
	probes  []Probe
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used to report unhealthy probes.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

// WithMetrics enables per-probe duration and result metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// NewAggregator creates an empty Aggregator.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrDiscard(a.logger)
	return a
}

// Register appends a probe with the given timeout. A non-positive timeout
// selects DefaultTimeout. Names must be unique.
func (a *Aggregator) Register(checker ports.HealthChecker, timeout time.Duration) error {
	if checker == nil {
		return errNilChecker
	}
	name := checker.Name()
	if name == "" {
		return errEmptyName
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, p := range a.probes {
		if p.Name() == name {
			return fmt.Errorf("%w: %s", errDuplicateProbe, name)
		}
	}
	a.probes = append(a.probes, Probe{Checker: checker, Timeout: timeout})
	return nil
}

// Probes returns a copy of the registered probes in registration order.
func (a *Aggregator) Probes() []Probe {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Probe, len(a.probes))
	copy(out, a.probes)
	return out
}

// Check evaluates every registered probe. The probe slice is copied under a
// read lock so evaluation runs without holding the lock.
func (a *Aggregator) Check(ctx context.Context) domain.AggregateResult {
	return a.Evaluate(ctx, a.Probes())
}

// Evaluate runs the given probes concurrently and waits for all of them. The
// wait is bounded by the largest probe timeout. A failing probe never cancels
// the others.
func (a *Aggregator) Evaluate(ctx context.Context, probes []Probe) domain.AggregateResult {
	outcomes := make([]domain.Outcome, len(probes))

	var g errgroup.Group
	for i, p := range probes {
		g.Go(func() error {
			start := time.Now()
			outcome, err := p.evaluate(ctx)
			a.record(ctx, outcome, time.Since(start))
			if err != nil {
				logging.FromContextOr(ctx, a.logger).WarnContext(ctx, "probe unhealthy",
					slog.String("probe", outcome.Name),
					slog.Duration("duration", time.Since(start)),
					slog.String("error", err.Error()),
				)
			}
			outcomes[i] = outcome
			return nil
		})
	}
	_ = g.Wait()

	return domain.NewAggregateResult(outcomes)
}

func (a *Aggregator) record(ctx context.Context, o domain.Outcome, d time.Duration) {
	if a.metrics == nil {
		return
	}
	result := "up"
	if !o.Healthy {
		result = "down"
	}
	a.metrics.ProbeDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(telemetry.AttrProbe.String(o.Name)))
	a.metrics.ProbeTotal.Add(ctx, 1,
		metric.WithAttributes(telemetry.AttrProbe.String(o.Name), telemetry.AttrResult.String(result)))
}
