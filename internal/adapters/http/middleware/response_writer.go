// Package middleware provides HTTP middleware for the inbound request pipeline.
//
// The middleware chain processes requests in this order:
//
//	Recovery → RequestID → OpenTelemetry → Logging → Handler
//
// Each middleware is a func(http.Handler) http.Handler and can be composed
// using the Chain helper. Default builds the full chain.
package middleware

import "net/http"

// statusRecorder remembers the status and body size a handler produced so the
// outer middleware can report them after ServeHTTP returns.
type statusRecorder struct {
	http.ResponseWriter
	code  int
	bytes int64
}

func record(w http.ResponseWriter) *statusRecorder {
	if sr, ok := w.(*statusRecorder); ok {
		return sr
	}
	return &statusRecorder{ResponseWriter: w}
}

// status is the response status. A handler that wrote nothing still gets
// net/http's implicit 200.
func (sr *statusRecorder) status() int {
	if sr.code == 0 {
		return http.StatusOK
	}
	return sr.code
}

// committed reports whether the status line has gone out.
func (sr *statusRecorder) committed() bool {
	return sr.code != 0
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.code != 0 {
		return
	}
	sr.code = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.code == 0 {
		sr.code = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}
