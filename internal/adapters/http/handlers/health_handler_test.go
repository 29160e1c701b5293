package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/loyalnest/service-bootstrap/internal/adapters/http/dto"
	"github.com/loyalnest/service-bootstrap/internal/adapters/http/handlers"
	"github.com/loyalnest/service-bootstrap/internal/domain"
	"github.com/loyalnest/service-bootstrap/internal/platform/health"
	"github.com/loyalnest/service-bootstrap/mocks"
)

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) dto.HealthResponse {
	t.Helper()
	var resp dto.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// --- Liveness ---

func TestLiveness_AlwaysOK(t *testing.T) {
	t.Parallel()

	h := handlers.NewHealthHandler(mocks.NewMockHealthAggregator(t))

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/api/health/live", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

// --- Health ---

func TestHealth_StatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		result     domain.AggregateResult
		wantCode   int
		wantStatus string
	}{
		{
			name:       "no probes",
			result:     domain.NewAggregateResult(nil),
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name:       "all up",
			result:     domain.NewAggregateResult([]domain.Outcome{domain.Healthy("redis")}),
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name: "one down",
			result: domain.NewAggregateResult([]domain.Outcome{
				domain.Healthy("redis"),
				domain.Unhealthy("postgres", errors.New("timeout")),
			}),
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			agg := mocks.NewMockHealthAggregator(t)
			agg.EXPECT().Check(mock.Anything).Return(tt.result)
			h := handlers.NewHealthHandler(agg)

			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", http.NoBody))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantStatus, decodeHealth(t, rec).Status)
		})
	}
}

// stubChecker is a dependency that answers with a fixed error.
type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                      { return s.name }
func (s stubChecker) HealthCheck(context.Context) error { return s.err }

func newAggregator(t *testing.T, checkers ...stubChecker) *health.Aggregator {
	t.Helper()
	agg := health.NewAggregator()
	for _, c := range checkers {
		require.NoError(t, agg.Register(c, time.Second))
	}
	return agg
}

func TestHealth_ThreeProbesHealthy(t *testing.T) {
	t.Parallel()

	h := handlers.NewHealthHandler(newAggregator(t,
		stubChecker{name: "postgres"},
		stubChecker{name: "redis"},
		stubChecker{name: "kafka"},
	))

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"status": "ok",
		"info": {
			"postgres": {"status": "up"},
			"redis": {"status": "up"},
			"kafka": {"status": "up"}
		},
		"error": {},
		"details": {
			"postgres": {"status": "up"},
			"redis": {"status": "up"},
			"kafka": {"status": "up"}
		}
	}`, rec.Body.String())
}

func TestHealth_KafkaRefused(t *testing.T) {
	t.Parallel()

	h := handlers.NewHealthHandler(newAggregator(t,
		stubChecker{name: "postgres"},
		stubChecker{name: "redis"},
		stubChecker{name: "kafka", err: errors.New("connect ECONNREFUSED 127.0.0.1:9092")},
	))

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", http.NoBody))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	resp := decodeHealth(t, rec)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, dto.HealthIndicator{
		"status":  "down",
		"message": "connect ECONNREFUSED 127.0.0.1:9092",
	}, resp.Error["kafka"])
	assert.Contains(t, resp.Info, "postgres")
	assert.Contains(t, resp.Info, "redis")
	assert.NotContains(t, resp.Info, "kafka")
	assert.Len(t, resp.Details, 3)
}
