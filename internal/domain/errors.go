package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrProbeTimeout    = errors.New("probe timeout")
	ErrProbeConnection = errors.New("probe connection error")
	ErrRegistration    = errors.New("registration error")
	ErrDeregistration  = errors.New("deregistration error")
)

// ProbeError classifies a failed probe. It matches both its Kind sentinel
// (ErrProbeTimeout or ErrProbeConnection) and the underlying cause.
type ProbeError struct {
	Probe string
	Kind  error
	Err   error
}

func (e *ProbeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Probe, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Probe, e.Kind, e.Err)
}

func (e *ProbeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// RegistryOp names a registry operation for error reporting.
type RegistryOp string

const (
	OpRegister   RegistryOp = "register"
	OpDeregister RegistryOp = "deregister"
)

// RegistryError reports a failed registry call. It matches ErrRegistration or
// ErrDeregistration depending on Op, as well as the underlying cause.
type RegistryError struct {
	Op        RegistryOp
	ServiceID string
	Err       error
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.ServiceID, e.Err)
}

func (e *RegistryError) Unwrap() []error {
	kind := ErrRegistration
	if e.Op == OpDeregister {
		kind = ErrDeregistration
	}
	return []error{kind, e.Err}
}
