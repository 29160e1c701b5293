package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusRecorder_NothingWritten(t *testing.T) {
	t.Parallel()

	sr := record(httptest.NewRecorder())

	assert.Equal(t, http.StatusOK, sr.status())
	assert.False(t, sr.committed())
}

func TestStatusRecorder_FirstHeaderWins(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	sr := record(rec)

	sr.WriteHeader(http.StatusServiceUnavailable)
	sr.WriteHeader(http.StatusOK)

	assert.Equal(t, http.StatusServiceUnavailable, sr.status())
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.True(t, sr.committed())
}

func TestStatusRecorder_ImplicitOK(t *testing.T) {
	t.Parallel()

	sr := record(httptest.NewRecorder())

	n, err := sr.Write([]byte(`{"status":"ok"}`))
	require.NoError(t, err)
	_, _ = sr.Write([]byte("\n"))

	assert.Equal(t, 15, n)
	assert.Equal(t, http.StatusOK, sr.status())
	assert.Equal(t, int64(16), sr.bytes)
}

func TestStatusRecorder_ReusesExistingRecorder(t *testing.T) {
	t.Parallel()

	outer := record(httptest.NewRecorder())

	assert.Same(t, outer, record(outer))
}

func TestStatusRecorder_Unwrap(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()

	assert.Same(t, rec, record(rec).Unwrap())
}
