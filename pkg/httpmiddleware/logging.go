package httpmiddleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ContextLogger installs lg as the contextual logger for the request,
// annotated with the request identifier, and writes one access log line per
// completed request. Handlers pick the logger up with zctx.From on the
// request context.
func ContextLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLg := lg
		if id := RequestIDFrom(c); id != "" {
			reqLg = reqLg.With(zap.String("request_id", id))
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			reqLg = reqLg.With(zap.String("trace_id", sc.TraceID().String()))
		}
		ctx := zctx.Base(c.Request.Context(), reqLg)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			reqLg.Error("Request", fields...)
		case c.Writer.Status() >= 400:
			reqLg.Warn("Request", fields...)
		default:
			reqLg.Info("Request", fields...)
		}
	}
}
