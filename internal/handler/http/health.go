package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"newsletter-press/internal/handler/http/respond"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Version   string                 `json:"version"`
	Checks    map[string]CheckStatus `json:"checks,omitempty"`
}

// CheckStatus is one named health check result.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthHandler reports process liveness and, when a database is wired,
// its connectivity.
type HealthHandler struct {
	DB      *sql.DB
	Version string
}

// ServeHTTP handles GET /healthz. A failing check flips the overall status
// and the response code to 503.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.Version,
		Checks:    map[string]CheckStatus{},
	}
	code := http.StatusOK

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Checks["database"] = CheckStatus{Status: "unhealthy", Message: err.Error()}
			code = http.StatusServiceUnavailable
		} else {
			resp.Checks["database"] = CheckStatus{Status: "healthy"}
		}
	}

	respond.JSON(w, code, resp)
}
