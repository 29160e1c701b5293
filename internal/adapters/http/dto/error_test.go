package dto_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loyalnest/service-bootstrap/internal/adapters/http/dto"
)

func TestWriteErrorResponse(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/nope", http.NoBody)

	dto.WriteErrorResponse(rec, req, http.StatusNotFound, errors.New("no route"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, dto.ErrorResponse{
		Type:     "about:blank",
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   "no route",
		Instance: "/api/nope",
	}, body)
}

func TestNewErrorResponse_NilError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/health", http.NoBody)

	resp := dto.NewErrorResponse(req, http.StatusMethodNotAllowed, nil)

	assert.Equal(t, "Method Not Allowed", resp.Title)
	assert.Empty(t, resp.Detail)
}
