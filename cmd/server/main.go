// Package main is the entry point for the service. It wires all dependencies
// using samber/do v2, serves the health endpoints, registers with the
// service registry once healthy, and deregisters on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"time"

	"github.com/samber/do/v2"
	"go.opentelemetry.io/otel/metric/noop"

	adapthttp "github.com/loyalnest/service-bootstrap/internal/adapters/http"
	"github.com/loyalnest/service-bootstrap/internal/adapters/http/handlers"
	"github.com/loyalnest/service-bootstrap/internal/adapters/http/middleware"
	"github.com/loyalnest/service-bootstrap/internal/adapters/probes"
	"github.com/loyalnest/service-bootstrap/internal/adapters/registry/consul"
	"github.com/loyalnest/service-bootstrap/internal/app/bootstrap"
	"github.com/loyalnest/service-bootstrap/internal/domain"
	"github.com/loyalnest/service-bootstrap/internal/platform/config"
	"github.com/loyalnest/service-bootstrap/internal/platform/health"
	"github.com/loyalnest/service-bootstrap/internal/platform/httpclient"
	"github.com/loyalnest/service-bootstrap/internal/platform/logging"
	"github.com/loyalnest/service-bootstrap/internal/platform/telemetry"
	"github.com/loyalnest/service-bootstrap/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const otelShutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.ProfileFromEnv())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		otelCtx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer cancel()
		if err := otel.Shutdown(otelCtx); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}()

	deps, err := probes.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening dependencies: %w", err)
	}
	defer deps.Close()

	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)
	do.ProvideValue(injector, deps)

	registerDependencies(injector, cfg, logger)

	// Resolving the sequencer eagerly wires the full graph.
	seq, err := do.Invoke[*bootstrap.Sequencer](injector)
	if err != nil {
		return fmt.Errorf("resolving sequencer: %w", err)
	}

	logger.Info("starting service",
		slog.String("service", cfg.Service.Name),
		slog.Any("probes", cfg.Health.Probes),
		slog.Bool("registry_enabled", cfg.Registry.Enabled),
	)

	if err := seq.Run(ctx); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. The providers are
// nil when telemetry is disabled; metrics then records into a no-op meter.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		metrics, err := telemetry.NewMetrics(noop.NewMeterProvider())
		if err != nil {
			return nil, fmt.Errorf("creating metrics: %w", err)
		}
		return &otelProviders{metrics: metrics}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (ports.HealthAggregator, error) {
		deps := do.MustInvoke[*probes.Dependencies](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		checkers, err := deps.Checkers(cfg.Health.Probes)
		if err != nil {
			return nil, err
		}
		agg := health.NewAggregator(health.WithLogger(logger), health.WithMetrics(metrics))
		for _, c := range checkers {
			if err := agg.Register(c, cfg.Health.ProbeTimeout); err != nil {
				return nil, fmt.Errorf("registering probe: %w", err)
			}
		}
		return agg, nil
	})

	do.Provide(injector, func(i do.Injector) (ports.RegistryClient, error) {
		if !cfg.Registry.Enabled {
			// A nil registry disables registration.
			return nil, nil
		}
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		rc := cfg.Registry
		transport := httpclient.NewTransport(nethttp.DefaultTransport, "consul",
			httpclient.BreakerSettings{
				MaxFailures:   rc.CircuitBreaker.MaxFailures,
				Timeout:       rc.CircuitBreaker.Timeout,
				HalfOpenLimit: rc.CircuitBreaker.HalfOpenLimit,
			},
			metrics, logger,
		)
		return consul.New(consul.Options{
			Address:           rc.URL,
			Token:             rc.Token,
			RequestTimeout:    rc.RequestTimeout,
			DeregisterTimeout: rc.DeregisterTimeout,
			Transport:         transport,
			Metrics:           metrics,
			Logger:            logger,
		})
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		agg := do.MustInvoke[ports.HealthAggregator](i)
		return handlers.NewHealthHandler(agg), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(cfg.Server.Prefix, healthH,
			middleware.Default(logger, metrics, adapthttp.HealthPath(cfg.Server.Prefix)),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*bootstrap.Sequencer, error) {
		server := do.MustInvoke[*adapthttp.Server](i)
		registry := do.MustInvoke[ports.RegistryClient](i)
		return bootstrap.New(server, registry, sequencerSettings(cfg), logger), nil
	})
}

// sequencerSettings maps configuration onto the bootstrap lifecycle.
func sequencerSettings(cfg *config.Config) bootstrap.Settings {
	rc := cfg.Registry
	return bootstrap.Settings{
		Registration: domain.Registration{
			ID:                      rc.ServiceID,
			Name:                    cfg.Service.Name,
			Address:                 rc.ServiceAddress,
			Port:                    rc.ServicePort,
			Tags:                    rc.Tags,
			Interval:                rc.CheckInterval,
			Timeout:                 rc.CheckTimeout,
			DeregisterCriticalAfter: rc.DeregisterCriticalAfter,
		},
		HealthPath:           adapthttp.HealthPath(cfg.Server.Prefix),
		LivePath:             adapthttp.LivePath(cfg.Server.Prefix),
		ListenHost:           cfg.Server.Host,
		ReadyTimeout:         rc.ReadyTimeout,
		DeregisterTimeout:    rc.DeregisterTimeout,
		ShutdownTimeout:      cfg.Server.ShutdownTimeout,
		RegistrationRequired: rc.Required,
	}
}
