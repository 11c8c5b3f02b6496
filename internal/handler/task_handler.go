package handler

import (
	"log/slog"
	"net/http"

	"github.com/farm-operations-api/internal/dto"
	"github.com/farm-operations-api/internal/service"
)

type TaskHandler struct {
	base
	taskService service.TaskService
}

func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		base:        newBase(logger),
		taskService: taskService,
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	task, err := h.taskService.Create(r.Context(), scopeFrom(r), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.List(r.Context(), scopeFrom(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, orEmpty(tasks))
}

func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "task")
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(r.Context(), scopeFrom(r), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, task)
}
