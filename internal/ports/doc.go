// Package ports defines interfaces between layers in the hexagonal architecture.
// Probe and registry ports are implemented by outbound adapters and driven by
// the bootstrap sequencer; the aggregator port is consumed by HTTP handlers.
package ports
