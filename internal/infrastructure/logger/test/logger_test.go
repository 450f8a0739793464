package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/bionicotaku/lingo-services-posts/internal/infrastructure/logger"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestWithTrace_InjectsSpanContext(t *testing.T) {
	var buf bytes.Buffer
	l := logger.WithTrace(log.NewStdLogger(&buf))

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	log.NewHelper(log.WithContext(ctx, l)).Info("hello")

	out := buf.String()
	require.Contains(t, out, "trace_id=4bf92f3577b34da6a3ce929d0e0e4736")
	require.Contains(t, out, "span_id=00f067aa0ba902b7")
	require.Contains(t, out, "msg=hello")
}

func TestWithTrace_EmptyWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	l := logger.WithTrace(log.NewStdLogger(&buf))

	log.NewHelper(l).Info("plain")
	require.Contains(t, buf.String(), "trace_id= ")
}
