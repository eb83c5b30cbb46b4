package health

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func serve(t *testing.T, checks map[string]Check) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	Handler(newLogger(), checks)(rec, req)
	return rec
}

func TestHandlerOKWithNoChecks(t *testing.T) {
	rec := serve(t, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlerOKWhenAllChecksPass(t *testing.T) {
	healthy := func(ctx context.Context) error { return nil }
	rec := serve(t, map[string]Check{"postgres": healthy, "redis": healthy})

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandlerDegradedWhenDependencyIsDown(t *testing.T) {
	down := func(ctx context.Context) error { return errors.New("connection refused") }
	rec := serve(t, map[string]Check{"redis": down})

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "redis", body["failed"])
}
