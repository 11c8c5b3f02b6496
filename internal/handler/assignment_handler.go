package handler

import (
	"log/slog"
	"net/http"

	"github.com/farm-operations-api/internal/dto"
	"github.com/farm-operations-api/internal/service"
)

type AssignmentHandler struct {
	base
	assignService service.AssignmentService
}

func NewAssignmentHandler(assignService service.AssignmentService, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		base:          newBase(logger),
		assignService: assignService,
	}
}

func (h *AssignmentHandler) AssignTool(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignToolRequest
	if !h.decode(w, r, &req) {
		return
	}

	assignment, err := h.assignService.AssignTool(r.Context(), scopeFrom(r), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, assignment)
}

func (h *AssignmentHandler) ReturnTool(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "assignment")
	if !ok {
		return
	}

	var req dto.AssignmentNotesRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	assignment, err := h.assignService.ReturnTool(r.Context(), scopeFrom(r), id, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToolReturnResponse{
		Message:    "Tool returned successfully",
		Assignment: assignment,
	})
}

func (h *AssignmentHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignTaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	assignment, err := h.assignService.AssignTask(r.Context(), scopeFrom(r), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, assignment)
}

func (h *AssignmentHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "assignment")
	if !ok {
		return
	}

	var req dto.AssignmentNotesRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	assignment, err := h.assignService.CompleteTask(r.Context(), scopeFrom(r), id, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.TaskCompleteResponse{
		Message:    "Task completed successfully",
		Assignment: assignment,
	})
}
