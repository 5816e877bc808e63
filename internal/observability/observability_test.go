package observability

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
)

func TestInit_NoEndpointUsesNoopProviders(t *testing.T) {
	providers, err := Init(DefaultConfig())
	require.NoError(t, err)

	require.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.Meter)
	require.NotNil(t, providers.Logger)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestNewREDMetrics_RecordAndInflight(t *testing.T) {
	t.Parallel()

	meter := noopmetric.NewMeterProvider().Meter("test")

	red, err := NewREDMetrics(meter)
	require.NoError(t, err)

	red.RecordValidation(context.Background(), "validate", "ok", time.Millisecond)
	red.RecordValidation(context.Background(), "validate", "error", time.Millisecond)

	dec := red.TrackInflight(context.Background(), "validate")
	dec()
}

func TestTracingHandler_AddsServiceAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(NewTracingHandler(inner, "uivet", "dev", ModeCLI))

	logger.Info("hello")

	out := buf.String()
	assert.Contains(t, out, `"service":"uivet"`)
	assert.Contains(t, out, `"mode":"cli"`)
	assert.Contains(t, out, `"env":"dev"`)
}

func TestHealthHandler_AlwaysOK(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	HealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyHandler_FailingCheckReturns503(t *testing.T) {
	t.Parallel()

	failing := func(context.Context) error { return errors.New("not ready") }

	rec := httptest.NewRecorder()
	ReadyHandler(failing).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ParseOTLPHeaders(""))
	assert.Nil(t, ParseOTLPHeaders("garbage"))
	assert.Equal(t,
		map[string]string{"a": "1", "b": "2"},
		ParseOTLPHeaders("a=1, b=2"),
	)
}

func TestHTTPMiddleware_PassesThrough(t *testing.T) {
	providers, err := Init(DefaultConfig())
	require.NoError(t, err)

	defer func() { _ = providers.Shutdown(context.Background()) }()

	handler := HTTPMiddleware(providers.Tracer, http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(rw, "short and stout")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/validate", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}
