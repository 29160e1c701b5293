package ports

import (
	"context"

	"github.com/loyalnest/service-bootstrap/internal/domain"
)

// HealthChecker is implemented by any component that can report the health of
// one external dependency: a database pool, a cache client, a message broker.
type HealthChecker interface {
	// Name returns the probe identifier reported in health output
	// (e.g., "postgres", "redis", "kafka").
	Name() string

	// HealthCheck contacts the dependency and returns nil if healthy, or an
	// error describing the failure.
	// Implementations should respect context cancellation and deadlines and
	// release any I/O resource they opened before returning.
	HealthCheck(ctx context.Context) error
}

// HealthAggregator evaluates every registered probe for one health request.
// Used by the health endpoint handler.
type HealthAggregator interface {
	// Check evaluates all probes and returns the combined result. Results
	// are computed fresh on every call.
	Check(ctx context.Context) domain.AggregateResult
}
