package probes

import (
	"context"
	"fmt"

	"github.com/loyalnest/service-bootstrap/internal/ports"
)

// Probe names reported in health output.
const (
	NamePostgres = "postgres"
	NameRedis    = "redis"
	NameKafka    = "kafka"
)

// Compile-time interface check.
var _ ports.HealthChecker = (*Postgres)(nil)

// Pinger is the part of *pgxpool.Pool the postgres probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Postgres checks the relational store by pinging a shared connection pool.
// It never opens a connection of its own.
type Postgres struct {
	pool Pinger
}

// NewPostgres returns a postgres probe over pool.
func NewPostgres(pool Pinger) *Postgres {
	return &Postgres{pool: pool}
}

// Name returns "postgres".
func (p *Postgres) Name() string { return NamePostgres }

// HealthCheck acquires a pooled connection and pings the server.
func (p *Postgres) HealthCheck(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
