package providers

import (
	"net/http"
	"time"

	"hangovr/internal/structures"
)

// unknownEndpoint labels requests for paths no route serves, keeping the
// label set fixed whatever clients send.
const unknownEndpoint = "other"

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// RequestMiddleware records request count and latency per route and writes
// one debug line per request to the GET or POST log.
func RequestMiddleware(metrics MetricsProviderInterface, logger Logger, routes []structures.Route, next http.Handler) http.Handler {
	known := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		known[route.Url] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		endpoint := r.URL.Path
		if _, ok := known[endpoint]; !ok {
			endpoint = unknownEndpoint
		}
		metrics.IncRequestsTotal(endpoint, sw.status)
		metrics.ObserveRequestDuration(endpoint, duration)
		logger.Debugf(GetLogTypeByRequestType(r.Method), "%s %s -> %d %dB (%s)", r.Method, r.URL.Path, sw.status, sw.bytes, duration)
	})
}
