package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/loyalnest/service-bootstrap/internal/platform/httpclient"
)

// maxRequestIDLen caps inbound X-Request-ID values; longer ones are replaced.
const maxRequestIDLen = 128

// WithRequestID returns a new context with the given request ID stored in it.
// The ID is stored via httpclient.WithRequestID so that outbound HTTP calls
// automatically include the X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return httpclient.WithRequestID(ctx, id)
}

// RequestIDFromContext extracts the request ID from the context.
// Returns an empty string if no request ID is stored.
func RequestIDFromContext(ctx context.Context) string {
	return httpclient.RequestIDFromContext(ctx)
}

// RequestID returns middleware that generates or extracts an X-Request-ID for
// each request. If the incoming request has an X-Request-ID header, it is
// reused; otherwise a new UUID v4 is generated. The ID is stored in the
// request context and set as a response header.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(httpclient.HeaderRequestID)
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}
			ctx := WithRequestID(r.Context(), id)
			w.Header().Set(httpclient.HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
