package server

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"time"

	"github.com/bionicotaku/lingo-services-posts/internal/controllers"
	loader "github.com/bionicotaku/lingo-services-posts/internal/infrastructure/config_loader"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/metadata"
	"github.com/go-kratos/kratos/v2/middleware/metrics"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/middleware/tracing"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readinessTimeout = 2 * time.Second

// Pinger 描述可被就绪探针检查的依赖。
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *loader.Server, tel *Telemetry, posts *controllers.PostHandler, store Pinger, logger log.Logger) *http.Server {
	requestLogger := log.With(logger, "request_id", RequestIDValuer())
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			tracing.Server(),
			RequestID(),
			metadata.Server(
				metadata.WithPropagatedPrefix("x-md-"),
			),
			metrics.Server(
				metrics.WithRequests(tel.RequestCounter),
				metrics.WithSeconds(tel.SecondsHistogram),
			),
			logging.Server(requestLogger),
		),
	}
	if c != nil {
		if c.HTTP.Network != "" {
			opts = append(opts, http.Network(c.HTTP.Network))
		}
		if c.HTTP.Addr != "" {
			opts = append(opts, http.Address(c.HTTP.Addr))
		}
		if c.HTTP.Timeout.Duration > 0 {
			opts = append(opts, http.Timeout(c.HTTP.Timeout.Duration))
		}
	}

	srv := http.NewServer(opts...)

	srv.Handle("/healthz", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
	}))

	helper := log.NewHelper(logger)
	srv.Handle("/readyz", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if store == nil {
			w.WriteHeader(stdhttp.StatusOK)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			helper.WithContext(ctx).Warnf("readiness check failed: %v", err)
			writeJSON(w, stdhttp.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, stdhttp.StatusOK, map[string]string{"status": "ok"})
	}))

	srv.Handle("/metrics", promhttp.HandlerFor(tel.PrometheusRegistry, promhttp.HandlerOpts{}))

	controllers.RegisterPostHTTPServer(srv, posts)
	return srv
}

func writeJSON(w stdhttp.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
