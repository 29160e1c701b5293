package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// KnownProbes lists the probe names accepted in health.probes.
var KnownProbes = map[string]bool{
	"postgres": true,
	"redis":    true,
	"kafka":    true,
}

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Service.validate(),
		c.Server.validate(),
		c.Log.validate(),
		c.Health.validate(),
		c.Postgres.validate(c.Health.enabled("postgres")),
		c.Redis.validate(c.Health.enabled("redis")),
		c.Kafka.validate(c.Health.enabled("kafka")),
		c.Registry.validate(),
		c.Telemetry.validate(),
	)
}

func (s *ServiceConfig) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("service.name must not be empty")
	}
	return nil
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if strings.Contains(s.Prefix, "//") {
		errs = append(errs, fmt.Errorf("server.prefix must not contain empty segments, got %q", s.Prefix))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	if s.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (h *HealthConfig) validate() error {
	var errs []error

	seen := make(map[string]bool, len(h.Probes))
	for _, p := range h.Probes {
		if !KnownProbes[p] {
			errs = append(errs, fmt.Errorf("health.probes: unknown probe %q", p))
		}
		if seen[p] {
			errs = append(errs, fmt.Errorf("health.probes: duplicate probe %q", p))
		}
		seen[p] = true
	}
	if h.ProbeTimeout <= 0 {
		errs = append(errs, errors.New("health.probe_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (h *HealthConfig) enabled(name string) bool {
	for _, p := range h.Probes {
		if p == name {
			return true
		}
	}
	return false
}

func (p *PostgresConfig) validate(enabled bool) error {
	if !enabled {
		return nil
	}

	var errs []error

	if p.URL == "" {
		errs = append(errs, errors.New("postgres.url must not be empty"))
	}
	if p.MaxConns < 1 {
		errs = append(errs, fmt.Errorf("postgres.max_conns must be >= 1, got %d", p.MaxConns))
	}

	return errors.Join(errs...)
}

func (r *RedisConfig) validate(enabled bool) error {
	if !enabled {
		return nil
	}

	var errs []error

	if r.Host == "" {
		errs = append(errs, errors.New("redis.host must not be empty"))
	}
	if r.Port < 1 || r.Port > 65535 {
		errs = append(errs, fmt.Errorf("redis.port must be between 1 and 65535, got %d", r.Port))
	}

	return errors.Join(errs...)
}

func (k *KafkaConfig) validate(enabled bool) error {
	if !enabled {
		return nil
	}

	var errs []error

	if len(k.Brokers) == 0 {
		errs = append(errs, errors.New("kafka.brokers must not be empty"))
	}
	if k.ClientID == "" {
		errs = append(errs, errors.New("kafka.client_id must not be empty"))
	}

	return errors.Join(errs...)
}

func (r *RegistryConfig) validate() error {
	if !r.Enabled {
		return nil
	}

	var errs []error

	u, err := url.Parse(r.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("registry.url must be an http(s) URL with a host, got %q", r.URL))
	}
	if r.ServicePort < 0 || r.ServicePort > 65535 {
		errs = append(errs, fmt.Errorf("registry.service_port must be between 0 and 65535, got %d", r.ServicePort))
	}
	if r.CheckInterval <= 0 {
		errs = append(errs, errors.New("registry.check_interval must be positive"))
	}
	if r.CheckTimeout <= 0 {
		errs = append(errs, errors.New("registry.check_timeout must be positive"))
	}
	if r.DeregisterCriticalAfter <= 0 {
		errs = append(errs, errors.New("registry.deregister_critical_after must be positive"))
	}
	if r.RequestTimeout <= 0 {
		errs = append(errs, errors.New("registry.request_timeout must be positive"))
	}
	if r.DeregisterTimeout <= 0 {
		errs = append(errs, errors.New("registry.deregister_timeout must be positive"))
	}
	if r.ReadyTimeout <= 0 {
		errs = append(errs, errors.New("registry.ready_timeout must be positive"))
	}
	if r.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("registry.circuit_breaker.max_failures must be >= 1, got %d",
			r.CircuitBreaker.MaxFailures))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}
