// Package httpclient provides an instrumented http.RoundTripper for outbound
// calls to infrastructure services such as the service registry. The
// transport applies, in order:
//
//	Circuit Breaker → Header Injection → OTEL Span → HTTP
//
// Requests are never retried. Callers that need a bound should set a timeout
// on the http.Client or the request context.
//
// Construction:
//
//	rt := httpclient.NewTransport(nil, "consul", breaker, metrics, logger)
//	client := &http.Client{Transport: rt, Timeout: 5 * time.Second}
//
// Context propagation for header injection (set by inbound middleware):
//
//	ctx = httpclient.WithRequestID(ctx, "req-123")
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/loyalnest/service-bootstrap/internal/platform/logging"
	"github.com/loyalnest/service-bootstrap/internal/platform/telemetry"
)

// HeaderRequestID is the header carrying the request ID on outbound calls.
const HeaderRequestID = "X-Request-ID"

type requestIDKey struct{}

// errServerStatus marks a 5xx response as a breaker failure. It never
// escapes RoundTrip.
var errServerStatus = errors.New("server error status")

// WithRequestID returns a new context with the given request ID stored in it.
// Inbound middleware should call this to propagate request IDs to outbound calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// BreakerSettings configures the transport's circuit breaker.
type BreakerSettings struct {
	// MaxFailures is the number of consecutive failures that opens the
	// breaker. Zero or less disables tripping.
	MaxFailures int
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// HalfOpenLimit is the number of probe requests allowed while half-open.
	HalfOpenLimit int
}

// Transport is an http.RoundTripper with a circuit breaker, request ID
// propagation, OpenTelemetry client spans and client metrics.
type Transport struct {
	base    http.RoundTripper
	peer    string
	breaker *gobreaker.CircuitBreaker[struct{}]
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewTransport wraps base (http.DefaultTransport when nil). The peer name
// identifies the remote service in spans, metrics and breaker logs. If
// metrics is nil, metric recording is skipped.
func NewTransport(base http.RoundTripper, peer string, cb BreakerSettings, metrics *telemetry.Metrics, logger *slog.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	logger = logging.OrDiscard(logger)

	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        peer,
		MaxRequests: toUint32(cb.HalfOpenLimit),
		Timeout:     cb.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return cb.MaxFailures > 0 && int(counts.ConsecutiveFailures) >= cb.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Transport{
		base:    base,
		peer:    peer,
		breaker: breaker,
		metrics: metrics,
		logger:  logger,
	}
}

// RoundTrip executes one request through the breaker. Transport errors and
// 5xx responses count as breaker failures; 5xx responses are still returned
// to the caller unchanged. When the breaker is open the request is not sent
// and the error wraps gobreaker.ErrOpenState.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()

	var resp *http.Response
	_, err := t.breaker.Execute(func() (struct{}, error) {
		// RoundTrippers must not modify the caller's request.
		out := req.Clone(ctx)
		t.injectHeaders(ctx, out)

		spanCtx, span := t.startSpan(ctx, out)
		defer span.End()
		out = out.WithContext(spanCtx)

		r, err := t.base.RoundTrip(out)
		t.finishSpan(span, r, err)
		if err != nil {
			return struct{}{}, err
		}
		resp = r
		if r.StatusCode >= http.StatusInternalServerError {
			return struct{}{}, errServerStatus
		}
		return struct{}{}, nil
	})

	t.recordMetrics(ctx, req.Method, start, resp, err)

	if errors.Is(err, errServerStatus) {
		return resp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.peer, err)
	}
	return resp, nil
}

// State reports the breaker state ("closed", "half-open" or "open").
func (t *Transport) State() string {
	return t.breaker.State().String()
}

func (t *Transport) injectHeaders(ctx context.Context, req *http.Request) {
	if id := RequestIDFromContext(ctx); id != "" {
		req.Header.Set(HeaderRequestID, id)
	}
}

// startSpan creates an OTEL client span for the outbound request and injects
// trace context (W3C Trace Context) into the request headers.
func (t *Transport) startSpan(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer("httpclient")

	spanName := fmt.Sprintf("HTTP %s %s", req.Method, t.peer)
	ctx, span := tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.Redacted()),
			attribute.String("peer.service", t.peer),
		),
	)

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return ctx, span
}

func (t *Transport) finishSpan(span trace.Span, resp *http.Response, err error) {
	if resp != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		if resp.StatusCode >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, resp.Status)
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// recordMetrics records client request duration and count metrics.
// Metrics are recorded outside the circuit breaker so that circuit-open
// rejections are captured. Safe to call with nil metrics.
func (t *Transport) recordMetrics(ctx context.Context, method string, start time.Time, resp *http.Response, err error) {
	if t.metrics == nil {
		return
	}

	duration := time.Since(start).Seconds()

	statusCode := 0
	result := "error"
	if resp != nil {
		statusCode = resp.StatusCode
		if statusCode < http.StatusBadRequest {
			result = "success"
		}
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		result = "circuit_open"
	}

	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPStatus.Int(statusCode),
		telemetry.AttrPeerService.String(t.peer),
		telemetry.AttrResult.String(result),
	)

	t.metrics.ClientRequestDuration.Record(ctx, duration, attrs)
	t.metrics.ClientRequestTotal.Add(ctx, 1, attrs)
}

// toUint32 safely converts a non-negative int to uint32, clamping at the
// uint32 maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
