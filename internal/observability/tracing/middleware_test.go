package tracing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	tracer = otel.Tracer("newsletter-press")
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		tracer = otel.Tracer("newsletter-press")
	})
	return recorder
}

func TestMiddlewareRecordsServerSpan(t *testing.T) {
	recorder := setupRecorder(t)

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/tools/create_newsletter_draft", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /tools/create_newsletter_draft", spans[0].Name())
	assert.NotEmpty(t, rec.Header().Get("X-Trace-Id"))
}

func TestMiddlewarePropagatesStatusCode(t *testing.T) {
	recorder := setupRecorder(t)

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodGet, "/tools", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	var sawError bool
	for _, attr := range spans[0].Attributes() {
		if string(attr.Key) == "error" && attr.Value.AsBool() {
			sawError = true
		}
	}
	assert.True(t, sawError, "5xx responses must mark the span as error")
}
