package health

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"route-backend/internal/cache"
	"route-backend/pkg/utils"
)

// Handler answers liveness probes with database and cache status. Redis being
// down does not fail the probe; the service degrades without it.
type Handler struct {
	DB *pgxpool.Pool
}

func NewHandler(db *pgxpool.Pool) *Handler {
	return &Handler{DB: db}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	dbStatus := "ok"
	if err := h.DB.Ping(ctx); err != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	redisStatus := "ok"
	if !cache.IsHealthy() {
		redisStatus = "unreachable"
	}

	utils.JSON(w, status, map[string]string{
		"status":   map[bool]string{true: "healthy", false: "unhealthy"}[status == http.StatusOK],
		"database": dbStatus,
		"redis":    redisStatus,
	})
}
