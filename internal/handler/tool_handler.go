package handler

import (
	"log/slog"
	"net/http"

	"github.com/farm-operations-api/internal/dto"
	"github.com/farm-operations-api/internal/service"
)

type ToolHandler struct {
	base
	toolService service.ToolService
}

func NewToolHandler(toolService service.ToolService, logger *slog.Logger) *ToolHandler {
	return &ToolHandler{
		base:        newBase(logger),
		toolService: toolService,
	}
}

func (h *ToolHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateToolRequest
	if !h.decode(w, r, &req) {
		return
	}

	tool, err := h.toolService.Create(r.Context(), scopeFrom(r), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, tool)
}

func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	tools, err := h.toolService.List(r.Context(), scopeFrom(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, orEmpty(tools))
}

func (h *ToolHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "tool")
	if !ok {
		return
	}

	tool, err := h.toolService.GetByID(r.Context(), scopeFrom(r), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, tool)
}
