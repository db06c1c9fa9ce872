package middleware

import (
	"net/http"
	"strings"
	"time"

	"fleetops/dashboard/internal/constants"
	reqctx "fleetops/dashboard/internal/context"
	"fleetops/dashboard/internal/logging"
)

var redactedHeaders = map[string]bool{
	strings.ToLower(constants.RouteKeyHeader): true,
	"authorization":                           true,
	"cookie":                                  true,
}

type respLogger struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (l *respLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

func (l *respLogger) Write(b []byte) (int, error) {
	n, err := l.ResponseWriter.Write(b)
	l.bytes += n
	return n, err
}

func redactedURL(r *http.Request) string {
	u := *r.URL
	q := u.Query()
	if q.Has("ors_key") {
		q.Set("ors_key", "[redacted]")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Logging dumps request headers and response size at debug level. Secrets are redacted.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := reqctx.GetRequestID(r.Context())

		headers := make(map[string]string, len(r.Header))
		for name, vals := range r.Header {
			if redactedHeaders[strings.ToLower(name)] {
				headers[name] = "[redacted]"
				continue
			}
			headers[name] = strings.Join(vals, ", ")
		}
		logging.Debug("Request received",
			"request_id", requestID,
			"method", r.Method,
			"url", redactedURL(r),
			"headers", headers,
		)

		lw := &respLogger{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(lw, r)

		logging.Debug("Response sent",
			"request_id", requestID,
			"status_code", lw.status,
			"bytes", lw.bytes,
			"duration", time.Since(start).String(),
		)
	})
}
