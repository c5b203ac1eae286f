package http

import (
	"database/sql"
	"log/slog"
	"net/http"

	"newsletter-press/internal/handler/http/requestid"
	"newsletter-press/internal/handler/http/respond"
	"newsletter-press/internal/observability/tracing"
	"newsletter-press/internal/tool"
)

// RouterConfig carries the router's collaborators. DB is optional; when nil
// the health check skips database connectivity.
type RouterConfig struct {
	Registry *tool.Registry
	Logger   *slog.Logger
	DB       *sql.DB
	Version  string
}

// NewRouter assembles the tool server routes behind the middleware chain:
// panic recovery, request IDs, tracing, and request logging.
func NewRouter(cfg RouterConfig) http.Handler {
	tools := NewToolsHandler(cfg.Registry)
	health := &HealthHandler{DB: cfg.DB, Version: cfg.Version}

	mux := http.NewServeMux()
	mux.Handle("GET /tools", Metrics("/tools", http.HandlerFunc(tools.List)))
	mux.Handle("POST /tools/{name}", Metrics("/tools/{name}", http.HandlerFunc(tools.Invoke)))
	mux.Handle("GET /healthz", health)
	mux.Handle("GET /metrics", MetricsHandler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respond.NotFound(w)
	})

	return Chain(mux,
		Recover(cfg.Logger),
		requestid.Middleware,
		tracing.Middleware,
		Logging(cfg.Logger),
	)
}
