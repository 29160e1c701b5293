package probes

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/loyalnest/service-bootstrap/internal/platform/config"
	"github.com/loyalnest/service-bootstrap/internal/ports"
)

// Dependencies owns the long-lived dependency clients used by the probes.
// Only the clients needed by the enabled probes are created; the others
// stay nil. Clients connect lazily, so Open succeeds while a dependency is
// down and the failure surfaces in health output instead.
type Dependencies struct {
	Postgres *pgxpool.Pool
	Redis    *redis.Client
	Kafka    KafkaDialer

	logger *slog.Logger
}

// Open builds the clients required by cfg.Health.Probes.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{logger: logger}

	for _, name := range cfg.Health.Probes {
		switch name {
		case NamePostgres:
			pool, err := openPostgres(ctx, cfg.Postgres)
			if err != nil {
				deps.Close()
				return nil, err
			}
			deps.Postgres = pool
		case NameRedis:
			deps.Redis = redis.NewClient(&redis.Options{
				Addr:        net.JoinHostPort(cfg.Redis.Host, strconv.Itoa(cfg.Redis.Port)),
				Password:    cfg.Redis.Password,
				DB:          cfg.Redis.DB,
				DialTimeout: cfg.Redis.DialTimeout,
			})
		case NameKafka:
			deps.Kafka = NewKafkaDialer(cfg.Kafka.Brokers, cfg.Kafka.ClientID, cfg.Kafka.DialTimeout)
		default:
			deps.Close()
			return nil, fmt.Errorf("unknown probe %q", name)
		}
	}

	return deps, nil
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	return pool, nil
}

// Checkers returns the probes for names in the given order. Every name must
// refer to a client opened by Open.
func (d *Dependencies) Checkers(names []string) ([]ports.HealthChecker, error) {
	checkers := make([]ports.HealthChecker, 0, len(names))
	for _, name := range names {
		switch {
		case name == NamePostgres && d.Postgres != nil:
			checkers = append(checkers, NewPostgres(d.Postgres))
		case name == NameRedis && d.Redis != nil:
			checkers = append(checkers, NewRedis(d.Redis))
		case name == NameKafka && d.Kafka != nil:
			checkers = append(checkers, NewKafka(d.Kafka))
		default:
			return nil, fmt.Errorf("probe %q has no open client", name)
		}
	}
	return checkers, nil
}

// Close releases every open client. Safe to call more than once.
func (d *Dependencies) Close() {
	if d.Postgres != nil {
		d.Postgres.Close()
		d.Postgres = nil
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil && d.logger != nil {
			d.logger.Warn("closing redis client",
				slog.String("operation", "Dependencies.Close"),
				slog.String("error", err.Error()),
			)
		}
		d.Redis = nil
	}
	d.Kafka = nil
}
