// Package health evaluates dependency probes and aggregates their outcomes
// into a single service health result. Each probe runs under its own timeout
// and is evaluated fail-closed: a probe that errors, panics, or does not
// answer in time is reported unhealthy instead of failing the request.
package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/loyalnest/service-bootstrap/internal/domain"
	"github.com/loyalnest/service-bootstrap/internal/ports"
)

// DefaultTimeout bounds a probe registered without its own timeout.
const DefaultTimeout = 3 * time.Second

var errProbePanic = errors.New("probe panicked")

// Probe is an immutable probe descriptor: a checker paired with the time
// budget it is allowed per evaluation.
type Probe struct {
	Checker ports.HealthChecker
	Timeout time.Duration
}

// Name returns the checker's name.
func (p Probe) Name() string {
	return p.Checker.Name()
}

func (p Probe) timeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultTimeout
	}
	return p.Timeout
}

// Evaluate runs the probe once and returns its outcome. It never panics and
// never returns later than the probe's timeout, even when the checker ignores
// context cancellation.
func (p Probe) Evaluate(ctx context.Context) domain.Outcome {
	outcome, _ := p.evaluate(ctx)
	return outcome
}

// evaluate returns the outcome together with the classified error so callers
// can log it. The error is nil for healthy outcomes.
func (p Probe) evaluate(ctx context.Context) (domain.Outcome, error) {
	name := p.Name()
	budget := p.timeout()

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	// Buffered so an abandoned check can finish without blocking forever.
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: %v", errProbePanic, r)
			}
		}()
		done <- p.Checker.HealthCheck(ctx)
	}()

	select {
	case err := <-done:
		if err == nil {
			return domain.Healthy(name), nil
		}
		if ctx.Err() != nil && errors.Is(err, context.DeadlineExceeded) {
			return timedOut(name, budget, err)
		}
		pe := &domain.ProbeError{Probe: name, Kind: domain.ErrProbeConnection, Err: err}
		return domain.Unhealthy(name, err), pe
	case <-ctx.Done():
		return timedOut(name, budget, ctx.Err())
	}
}

func timedOut(name string, budget time.Duration, cause error) (domain.Outcome, error) {
	pe := &domain.ProbeError{Probe: name, Kind: domain.ErrProbeTimeout, Err: cause}
	return domain.Unhealthy(name, fmt.Errorf("%w after %s", domain.ErrProbeTimeout, budget)), pe
}
