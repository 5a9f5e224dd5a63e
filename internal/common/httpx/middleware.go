// internal/common/httpx/middleware.go
package httpx

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"eventapp-functions/internal/common/logger"
	"eventapp-functions/internal/common/metrics"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// WithRequestLogging tags every request with a correlation ID, logs the
// outcome and records handler metrics.
func WithRequestLogging(name string, log logger.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-Id", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next(rec, r)

		elapsed := time.Since(start)
		metrics.HandlerDuration.WithLabelValues(name).Observe(elapsed.Seconds())
		metrics.HandlerRequests.WithLabelValues(name, http.StatusText(rec.status)).Inc()

		entry := log.WithFields(map[string]interface{}{
			"handler":   name,
			"requestId": requestID,
			"method":    r.Method,
			"status":    rec.status,
			"elapsedMs": elapsed.Milliseconds(),
		})
		if rec.status >= 500 {
			entry.Error("request failed", nil)
		} else {
			entry.Info("request handled", nil)
		}
	}
}
