// Package probes contains the outbound health checkers for the service's
// external dependencies: the Postgres pool, the Redis cache and the Kafka
// cluster. Each checker implements [ports.HealthChecker] and is evaluated by
// the health aggregator under its own timeout.
//
// Long-lived clients (the pgx pool and the Redis client) are owned by
// [Dependencies], built once from configuration and closed at shutdown. The
// Kafka checker instead opens a short admin session per check and always
// closes it before returning.
package probes
