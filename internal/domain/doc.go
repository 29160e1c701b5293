// Package domain holds the types shared by every layer of the health and
// registry bootstrap: probe outcomes, the aggregate readiness result, the
// registry registration record and its lifecycle states, and the error
// taxonomy used to classify probe and registry failures.
package domain
