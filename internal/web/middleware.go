package web

import (
	"net/http"
	"time"

	"github.com/pfrederiksen/event-schedule/internal/logger"
)

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger logs each request with method, path, status and duration
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			fields := logger.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote":      r.RemoteAddr,
			}
			logger.RecordTiming("web.request", time.Since(start))

			switch {
			case rec.status >= 500:
				log.Error("request", fields, nil)
			case rec.status >= 400:
				log.Warn("request", fields)
			default:
				log.Debug("request", fields)
			}
		})
	}
}
