package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hpnchanel/todoapi/internal/middleware"
)

const readyTimeout = 3 * time.Second

// Pinger is a backing store that can report whether it is reachable.
// *repository.Repository and *cache.Cache both satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness checks.
type HealthHandler struct {
	logger   *slog.Logger
	postgres Pinger
	redis    Pinger
}

// NewHealthHandler builds the health endpoints. A nil store is reported as
// "not configured" and does not fail readiness.
func NewHealthHandler(logger *slog.Logger, postgres, redis Pinger) *HealthHandler {
	return &HealthHandler{logger: logger, postgres: postgres, redis: redis}
}

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz reports that the process is serving.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz pings PostgreSQL and Redis in parallel and answers 503 if either is
// unreachable. Failure details go to the log only.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		checks = make(map[string]string, 2)
	)

	var g errgroup.Group
	for name, store := range map[string]Pinger{"postgres": h.postgres, "redis": h.redis} {
		if store == nil {
			mu.Lock()
			checks[name] = "not configured"
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			result := "ok"
			err := store.Ping(ctx)
			if err != nil {
				result = "unavailable"
				h.logger.Error("readiness check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
					slog.String("request_id", middleware.GetRequestID(r.Context())),
				)
			}
			mu.Lock()
			checks[name] = result
			mu.Unlock()
			return err
		})
	}

	if err := g.Wait(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Checks: checks})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Checks: checks})
}
