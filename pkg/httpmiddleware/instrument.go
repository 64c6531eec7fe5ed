package httpmiddleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument records a request counter and a latency histogram per route,
// method and status code.
func Instrument(serviceName string, mp metric.MeterProvider) gin.HandlerFunc {
	meter := mp.Meter(serviceName)
	requests, _ := meter.Int64Counter("http.server.request_count",
		metric.WithDescription("Completed HTTP requests"))
	latency, _ := meter.Float64Histogram("http.server.duration",
		metric.WithUnit("ms"),
		metric.WithDescription("HTTP request latency"))

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := metric.WithAttributes(
			attribute.String("http.route", route),
			attribute.String("http.method", c.Request.Method),
			attribute.Int("http.status_code", c.Writer.Status()),
		)

		ctx := c.Request.Context()
		requests.Add(ctx, 1, attrs)
		latency.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
	}
}
