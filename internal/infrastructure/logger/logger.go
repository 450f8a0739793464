// Package logger builds the service-wide Kratos logger.
package logger

import (
	"context"

	loader "github.com/bionicotaku/lingo-services-posts/internal/infrastructure/config_loader"

	gclog "github.com/bionicotaku/lingo-utils/gclog"
	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel/trace"
)

// NewLogger builds a Kratos-compatible logger with trace/span enrichment.
func NewLogger(meta loader.ServiceMetadata) (log.Logger, error) {
	labels := map[string]string{}
	if meta.InstanceID != "" {
		labels["service.id"] = meta.InstanceID
	}
	baseLogger, err := gclog.NewLogger(
		gclog.WithService(meta.Name),
		gclog.WithVersion(meta.Version),
		gclog.WithEnvironment(meta.Environment),
		gclog.WithStaticLabels(labels),
		gclog.EnableSourceLocation(),
	)
	if err != nil {
		return nil, err
	}
	return WithTrace(baseLogger), nil
}

// WithTrace decorates logger with trace_id/span_id valuers read from the
// OpenTelemetry span context carried by each request.
func WithTrace(base log.Logger) log.Logger {
	return log.With(
		base,
		"trace_id", log.Valuer(func(ctx context.Context) interface{} {
			sc := trace.SpanContextFromContext(ctx)
			if sc.HasTraceID() {
				return sc.TraceID().String()
			}
			return ""
		}),
		"span_id", log.Valuer(func(ctx context.Context) interface{} {
			sc := trace.SpanContextFromContext(ctx)
			if sc.HasSpanID() {
				return sc.SpanID().String()
			}
			return ""
		}),
	)
}
