package ports

import (
	"context"

	"github.com/loyalnest/service-bootstrap/internal/domain"
)

// RegistryClient registers this process with a service-discovery registry
// and removes it again on shutdown.
type RegistryClient interface {
	// Register creates or updates the registry entry for rec. Calling it
	// twice with the same service ID updates rather than duplicates.
	Register(ctx context.Context, rec domain.Registration) error

	// Deregister removes the entry for serviceID. Best effort: it always
	// completes, and the returned error is informational.
	Deregister(ctx context.Context, serviceID string) error

	// State reports where the client is in the registration lifecycle.
	State() domain.RegistrationState
}
