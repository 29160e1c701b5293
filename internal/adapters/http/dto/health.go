package dto

import "github.com/loyalnest/service-bootstrap/internal/domain"

// Health statuses in the terminus response format.
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusUp    = "up"
	StatusDown  = "down"
)

// HealthIndicator is one probe's entry: "status" plus any outcome detail
// such as "message".
type HealthIndicator map[string]string

// HealthResponse is the terminus-compatible health body. Info holds healthy
// probes, Error holds unhealthy ones, and Details holds all of them.
type HealthResponse struct {
	Status  string                     `json:"status"`
	Info    map[string]HealthIndicator `json:"info"`
	Error   map[string]HealthIndicator `json:"error"`
	Details map[string]HealthIndicator `json:"details"`
}

// ToHealthResponse converts an aggregate result into the response body.
func ToHealthResponse(r domain.AggregateResult) HealthResponse {
	resp := HealthResponse{
		Status:  StatusOK,
		Info:    make(map[string]HealthIndicator),
		Error:   make(map[string]HealthIndicator),
		Details: make(map[string]HealthIndicator, len(r.Outcomes)),
	}
	if !r.Healthy {
		resp.Status = StatusError
	}

	for _, o := range r.Outcomes {
		ind := HealthIndicator{"status": StatusUp}
		if !o.Healthy {
			ind["status"] = StatusDown
		}
		for k, v := range o.Detail {
			if k != "status" {
				ind[k] = v
			}
		}

		resp.Details[o.Name] = ind
		if o.Healthy {
			resp.Info[o.Name] = ind
		} else {
			resp.Error[o.Name] = ind
		}
	}
	return resp
}
