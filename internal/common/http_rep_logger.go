package common

import (
	"net/http"
	"net/http/httputil"
	"time"

	"fleetops/dashboard/internal/logging"
)

// LoggingTransport dumps outbound requests at debug level.
// Authorization headers are redacted before dumping.
type LoggingTransport struct {
	Base http.RoundTripper
}

func NewLoggingTransport(base http.RoundTripper) *LoggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &LoggingTransport{Base: base}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	LogHTTPRequest(req)

	start := time.Now()
	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		logging.Debug("HTTP request failed", "url", req.URL.Redacted(), "error", err.Error())
		return nil, err
	}
	logging.Debug("HTTP response",
		"url", req.URL.Redacted(),
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

func LogHTTPRequest(req *http.Request) {
	clone := req.Clone(req.Context())
	if clone.Header.Get("Authorization") != "" {
		clone.Header.Set("Authorization", "REDACTED")
	}
	// Body stays with the original request
	clone.Body = nil
	clone.ContentLength = 0

	dump, err := httputil.DumpRequestOut(clone, false)
	if err != nil {
		logging.Debug("Failed to dump HTTP request", "error", err.Error())
		return
	}
	logging.Debug("HTTP request dump", "request", string(dump))
}
