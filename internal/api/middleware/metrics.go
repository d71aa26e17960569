package middleware

import (
	"net/http"
	"sync/atomic"
)

// MetricsCollector feeds the /metrics endpoint. Requests and failures are
// counted into the caller's counters; solves cut short by SOLVE_TIMEOUT
// answer 503 and are tracked separately from other server errors.
type MetricsCollector struct {
	requestCount *atomic.Int64
	errorCount   *atomic.Int64
	serverErrors atomic.Int64
	unavailable  atomic.Int64
	inFlight     atomic.Int64
}

func NewMetricsCollector(requestCount, errorCount *atomic.Int64) *MetricsCollector {
	return &MetricsCollector{
		requestCount: requestCount,
		errorCount:   errorCount,
	}
}

func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.requestCount.Add(1)
		mc.inFlight.Add(1)
		defer mc.inFlight.Add(-1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		switch {
		case rw.statusCode == http.StatusServiceUnavailable:
			mc.unavailable.Add(1)
			mc.errorCount.Add(1)
		case rw.statusCode >= http.StatusInternalServerError:
			mc.serverErrors.Add(1)
			mc.errorCount.Add(1)
		case rw.statusCode >= http.StatusBadRequest:
			mc.errorCount.Add(1)
		}
	})
}

func (mc *MetricsCollector) ServerErrors() int64 { return mc.serverErrors.Load() }

// Unavailable counts 503 responses: solves over their deadline and health
// checks that could not reach the database.
func (mc *MetricsCollector) Unavailable() int64 { return mc.unavailable.Load() }

func (mc *MetricsCollector) InFlight() int64 { return mc.inFlight.Load() }
