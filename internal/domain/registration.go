package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Registration is the record describing how a discovery registry reaches and
// polls this process. The registry keeps its own copy keyed by ID; the two
// converge eventually, with no transactional guarantee.
type Registration struct {
	// ID identifies this instance in the registry. Empty means Name.
	ID      string
	Name    string
	Address string
	Port    int
	Tags    []string

	HealthCheckURL          string
	Interval                time.Duration
	Timeout                 time.Duration
	DeregisterCriticalAfter time.Duration
}

// ServiceID returns the registry key for the record: ID when set, otherwise
// Name.
func (r Registration) ServiceID() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Name
}

// CheckName is the name of the HTTP check attached to the registration.
func (r Registration) CheckName() string {
	return r.Name + "-health"
}

// Validate reports every missing or out-of-range field.
func (r Registration) Validate() error {
	var errs []error

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, errors.New("registration name must not be empty"))
	}
	if r.Address == "" {
		errs = append(errs, errors.New("registration address must not be empty"))
	}
	if r.Port < 1 || r.Port > 65535 {
		errs = append(errs, fmt.Errorf("registration port must be between 1 and 65535, got %d", r.Port))
	}
	if r.HealthCheckURL == "" {
		errs = append(errs, errors.New("registration health check URL must not be empty"))
	}
	if r.Interval <= 0 {
		errs = append(errs, errors.New("registration check interval must be positive"))
	}
	if r.Timeout <= 0 {
		errs = append(errs, errors.New("registration check timeout must be positive"))
	}
	if r.DeregisterCriticalAfter <= 0 {
		errs = append(errs, errors.New("registration deregister-critical-after must be positive"))
	}

	return errors.Join(errs...)
}

// RegistrationState tracks a Registration through its lifecycle:
//
//	UNREGISTERED -> REGISTERING -> REGISTERED -> DEREGISTERING -> DEREGISTERED
//
// A failed registration returns to UNREGISTERED. Deregistration always ends
// in DEREGISTERED.
type RegistrationState int

const (
	StateUnregistered RegistrationState = iota
	StateRegistering
	StateRegistered
	StateDeregistering
	StateDeregistered
)

func (s RegistrationState) String() string {
	switch s {
	case StateUnregistered:
		return "UNREGISTERED"
	case StateRegistering:
		return "REGISTERING"
	case StateRegistered:
		return "REGISTERED"
	case StateDeregistering:
		return "DEREGISTERING"
	case StateDeregistered:
		return "DEREGISTERED"
	default:
		return fmt.Sprintf("RegistrationState(%d)", int(s))
	}
}
