package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/farm-operations-api/internal/dto"
	"github.com/farm-operations-api/internal/service"
)

type DashboardHandler struct {
	base
	dashService service.DashboardService
}

func NewDashboardHandler(dashService service.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		base:        newBase(logger),
		dashService: dashService,
	}
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashService.Get(r.Context(), scopeFrom(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dashboard)
}

// HealthHandler сообщает о доступности сервиса и его хранилища
type HealthHandler struct {
	base
	ping func(ctx context.Context) error
	now  func() time.Time
}

func NewHealthHandler(ping func(ctx context.Context) error, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		base: newBase(logger),
		ping: ping,
		now:  time.Now,
	}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := dto.HealthResponse{Status: "ok", Timestamp: h.now().UTC()}
	if err := h.ping(r.Context()); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		resp.Status = "unavailable"
		h.respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}
