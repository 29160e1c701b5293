// Package config provides configuration loading and validation for the service.
// Configuration is layered: built-in defaults -> base.yaml -> {profile}.yaml ->
// legacy environment names -> APP_ environment variables.
package config

import "time"

// Config holds all configuration for the service.
type Config struct {
	Service   ServiceConfig   `koanf:"service"`
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Health    HealthConfig    `koanf:"health"`
	Postgres  PostgresConfig  `koanf:"postgres"`
	Redis     RedisConfig     `koanf:"redis"`
	Kafka     KafkaConfig     `koanf:"kafka"`
	Registry  RegistryConfig  `koanf:"registry"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServiceConfig identifies this process.
type ServiceConfig struct {
	Name string `koanf:"name"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Prefix          string        `koanf:"prefix"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// HealthConfig selects the dependency probes and their time budget.
type HealthConfig struct {
	// Probes lists enabled probes in evaluation order. Known names:
	// postgres, redis, kafka.
	Probes       []string      `koanf:"probes"`
	ProbeTimeout time.Duration `koanf:"probe_timeout"`
}

// PostgresConfig holds the relational store connection pool settings.
type PostgresConfig struct {
	URL      string `koanf:"url"`
	MaxConns int32  `koanf:"max_conns"`
}

// RedisConfig holds cache connection settings.
type RedisConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

// KafkaConfig holds message broker admin session settings.
type KafkaConfig struct {
	Brokers     []string      `koanf:"brokers"`
	ClientID    string        `koanf:"client_id"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

// RegistryConfig holds service discovery settings.
type RegistryConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	Token   string `koanf:"token"`

	// ServiceID defaults to service.name when empty.
	ServiceID string `koanf:"service_id"`
	// ServiceAddress is the host the registry polls; defaults to os.Hostname.
	ServiceAddress string `koanf:"service_address"`
	// ServicePort defaults to the bound HTTP port when zero.
	ServicePort int      `koanf:"service_port"`
	Tags        []string `koanf:"tags"`

	CheckInterval           time.Duration `koanf:"check_interval"`
	CheckTimeout            time.Duration `koanf:"check_timeout"`
	DeregisterCriticalAfter time.Duration `koanf:"deregister_critical_after"`

	RequestTimeout    time.Duration `koanf:"request_timeout"`
	ReadyTimeout      time.Duration `koanf:"ready_timeout"`
	DeregisterTimeout time.Duration `koanf:"deregister_timeout"`
	// Required makes a failed registration fatal instead of degraded.
	Required bool `koanf:"required"`

	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
