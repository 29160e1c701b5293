package probes

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/loyalnest/service-bootstrap/internal/ports"
)

// Compile-time interface check.
var _ ports.HealthChecker = (*Redis)(nil)

// RedisPinger is the part of redis.UniversalClient the redis probe needs.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// Redis checks the cache with a protocol-level PING.
type Redis struct {
	client RedisPinger
}

// NewRedis returns a redis probe over client.
func NewRedis(client RedisPinger) *Redis {
	return &Redis{client: client}
}

// Name returns "redis".
func (r *Redis) Name() string { return NameRedis }

// HealthCheck sends PING and expects PONG.
func (r *Redis) HealthCheck(ctx context.Context) error {
	pong, err := r.client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if pong != "PONG" {
		return fmt.Errorf("ping: unexpected reply %q", pong)
	}
	return nil
}
