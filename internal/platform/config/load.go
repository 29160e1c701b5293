package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	defaultConfigDir = "configs"

	// DefaultProfile is used when APP_PROFILE is unset.
	DefaultProfile = "local"
)

// legacyEnv maps the unprefixed environment names used by the existing
// deployment manifests to koanf keys. APP_ variables take precedence.
var legacyEnv = map[string]string{
	"PORT":           "server.port",
	"SERVICE_NAME":   "service.name",
	"DATABASE_URL":   "postgres.url",
	"REDIS_HOST":     "redis.host",
	"REDIS_PORT":     "redis.port",
	"REDIS_PASSWORD": "redis.password",
	"KAFKA_BROKER":   "kafka.brokers",
	"CONSUL_URL":     "registry.url",
}

// listKeys are keys whose env values are comma-separated lists.
var listKeys = map[string]bool{
	"health.probes": true,
	"kafka.brokers": true,
	"registry.tags": true,
}

// Option configures the Load function.
type Option func(*loadOptions)

type loadOptions struct {
	configDir string
}

// WithConfigDir sets the directory where config YAML files are located.
// Defaults to "configs" relative to the working directory.
func WithConfigDir(dir string) Option {
	return func(o *loadOptions) {
		o.configDir = dir
	}
}

// Load reads configuration using a 5-layer hierarchy (highest precedence last):
//
//  1. Built-in defaults
//  2. Base config ({configDir}/base.yaml), skipped when absent
//  3. Profile config ({configDir}/{profile}.yaml), skipped when absent
//  4. Legacy environment names (PORT, KAFKA_BROKER, REDIS_HOST, ...)
//  5. Environment variables (APP_ prefix)
//
// Environment variable mapping uses key matching against loaded config keys
// to resolve ambiguity between nesting separators and field-internal underscores:
//
//	APP_SERVER_PORT                     -> server.port
//	APP_SERVER_READ_TIMEOUT             -> server.read_timeout
//	APP_REGISTRY_DEREGISTER_CRITICAL_AFTER -> registry.deregister_critical_after
//	APP_KAFKA_BROKERS=a:9092,b:9092     -> kafka.brokers ["a:9092" "b:9092"]
func Load(profile string, opts ...Option) (*Config, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	o := &loadOptions{configDir: defaultConfigDir}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")

	// Layer 1: Defaults.
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// Layers 2 and 3: YAML files.
	for _, name := range []string{"base.yaml", profile + ".yaml"} {
		path := filepath.Join(o.configDir, name)
		if err := loadOptionalFile(k, path); err != nil {
			return nil, err
		}
	}

	// Layer 4: Legacy environment names.
	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			koanfKey, ok := legacyEnv[key]
			if !ok {
				return "", nil
			}
			return koanfKey, envValue(koanfKey, value)
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading legacy env vars: %w", err)
	}

	// Layer 5: Environment variables with APP_ prefix.
	// Build a reverse lookup from known koanf keys so that env vars like
	// APP_SERVER_READ_TIMEOUT correctly resolve to "server.read_timeout"
	// instead of being ambiguously split as "server.read.timeout".
	envLookup := buildEnvLookup(k.Keys())

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, envPrefix)
			key = strings.ToLower(key)

			if key == "profile" {
				return "", nil
			}
			if koanfKey, ok := envLookup[key]; ok {
				return koanfKey, envValue(koanfKey, value)
			}

			// Fallback: simple underscore-to-dot replacement.
			return strings.ReplaceAll(key, "_", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// ProfileFromEnv returns APP_PROFILE, or DefaultProfile when it is unset.
func ProfileFromEnv() string {
	if p := os.Getenv("APP_PROFILE"); p != "" {
		return p
	}
	return DefaultProfile
}

// loadOptionalFile merges the YAML file at path into k. A missing file is not
// an error; an unreadable or malformed one is.
func loadOptionalFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading config %s: %w", path, err)
	}
	return nil
}

// envValue splits comma-separated values for list keys.
func envValue(key, value string) any {
	if !listKeys[key] {
		return value
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateProfile checks that the profile name is safe and non-empty.
func validateProfile(profile string) error {
	if strings.TrimSpace(profile) == "" {
		return errors.New("profile must not be empty")
	}
	if strings.ContainsAny(profile, `/\`) {
		return fmt.Errorf("profile must not contain path separators, got %q", profile)
	}
	if strings.Contains(profile, "..") {
		return fmt.Errorf("profile must not contain path traversal, got %q", profile)
	}
	return nil
}

// buildEnvLookup creates a reverse mapping from env-style keys to koanf dotted keys.
// For each koanf key like "server.read_timeout", the env form "server_read_timeout"
// is computed by replacing dots with underscores. This allows unambiguous matching
// when an env var arrives (e.g. APP_SERVER_READ_TIMEOUT -> "server.read_timeout").
func buildEnvLookup(keys []string) map[string]string {
	lookup := make(map[string]string, len(keys))
	for _, key := range keys {
		envKey := strings.ReplaceAll(key, ".", "_")
		lookup[envKey] = key
	}
	return lookup
}
