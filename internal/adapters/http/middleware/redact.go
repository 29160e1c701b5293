package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/loyalnest/service-bootstrap/internal/platform/logging"
)

const redacted = "[REDACTED]"

// RedactHeaders renders headers as log attributes sorted by name. Values of
// logging.SensitiveHeaders (Consul's X-Consul-Token among them) are masked;
// repeated headers are comma-joined.
func RedactHeaders(headers http.Header) []slog.Attr {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		v := strings.Join(headers[k], ",")
		if logging.SensitiveHeaders[strings.ToLower(k)] {
			v = redacted
		}
		attrs = append(attrs, slog.String(k, v))
	}
	return attrs
}
