package middleware

import (
	"log/slog"
	"net/http"

	"github.com/loyalnest/service-bootstrap/internal/platform/telemetry"
)

// Chain composes multiple middleware into a single middleware. The first
// argument becomes the outermost middleware (executed first on request,
// last on response). This matches the intuitive reading order:
//
//	Chain(Recovery, RequestID, Logging)(handler)
//
// is equivalent to:
//
//	Recovery(RequestID(Logging(handler)))
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(handler http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}

// Default returns the standard inbound chain:
//
//	Recovery → RequestID → OpenTelemetry → Logging
//
// Paths under quiet are logged at debug level. A nil metrics disables
// server metrics.
func Default(logger *slog.Logger, metrics *telemetry.Metrics, quiet ...string) func(http.Handler) http.Handler {
	return Chain(
		Recovery(logger),
		RequestID(),
		OpenTelemetry(metrics),
		Logging(logger, quiet...),
	)
}
