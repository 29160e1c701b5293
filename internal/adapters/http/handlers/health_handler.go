package handlers

import (
	"net/http"

	"github.com/loyalnest/service-bootstrap/internal/adapters/http/dto"
	"github.com/loyalnest/service-bootstrap/internal/ports"
)

// HealthHandler serves the aggregated health endpoint polled by the service
// registry and the process liveness endpoint.
type HealthHandler struct {
	aggregator ports.HealthAggregator
}

// NewHealthHandler creates a HealthHandler backed by aggregator.
func NewHealthHandler(aggregator ports.HealthAggregator) *HealthHandler {
	return &HealthHandler{aggregator: aggregator}
}

// Liveness handles GET /<prefix>/health/live. It touches no dependency and
// always returns 200 OK while the process serves HTTP.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": dto.StatusOK})
}

// Health handles GET /<prefix>/health. Every probe is evaluated on each
// request; the response is 200 when all are up and 503 otherwise.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	result := h.aggregator.Check(r.Context())

	code := http.StatusOK
	if !result.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, dto.ToHealthResponse(result))
}
