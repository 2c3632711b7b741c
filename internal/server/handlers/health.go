package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// StorageProber reports whether the note store can be reached.
type StorageProber interface {
	IsSyncAvailable(ctx context.Context) bool
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	prober  StorageProber
	version string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, prober StorageProber, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		prober:  prober,
		version: version,
	}
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Version string `json:"version,omitempty"`
}

// Health обрабатывает GET /api/v1/health
// Возвращает 503, если хранилище заметок недоступно
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Storage: "available",
		Version: h.version,
	}
	status := http.StatusOK

	if !h.prober.IsSyncAvailable(r.Context()) {
		resp.Status = "degraded"
		resp.Storage = "unavailable"
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
