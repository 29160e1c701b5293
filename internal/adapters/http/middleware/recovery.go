package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/loyalnest/service-bootstrap/internal/adapters/http/dto"
	"github.com/loyalnest/service-bootstrap/internal/platform/httpclient"
	"github.com/loyalnest/service-bootstrap/internal/platform/logging"
)

// errInternalServer is the only detail a client sees for a recovered panic.
var errInternalServer = errors.New("internal server error")

// Recovery returns middleware that turns a handler panic into an RFC 9457
// 500 response and an error log carrying the stack. If the handler already
// started its response only the log is written. http.ErrAbortHandler is
// re-raised so net/http can abort the connection quietly.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logging.OrDiscard(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sr := record(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("panic", fmt.Sprint(v)),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", sr.Header().Get(httpclient.HeaderRequestID)),
				)

				if !sr.committed() {
					dto.WriteErrorResponse(sr, r, http.StatusInternalServerError, errInternalServer)
				}
			}()

			next.ServeHTTP(sr, r)
		})
	}
}
