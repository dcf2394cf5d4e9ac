package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/bullscows/internal/metrics"
	"github.com/mcoot/bullscows/internal/middleware"
)

// Metrics records request latency labelled by the matched route template.
// It also renames the request span after the template.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := middleware.NewResponseWriter(w)

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}
			trace.SpanFromContext(r.Context()).SetName(r.Method + " " + route)

			next.ServeHTTP(wrapped, r)

			m.RequestDuration.
				WithLabelValues(r.Method, route, strconv.Itoa(wrapped.Status())).
				Observe(time.Since(start).Seconds())
		})
	}
}
