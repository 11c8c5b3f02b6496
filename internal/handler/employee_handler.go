package handler

import (
	"log/slog"
	"net/http"

	"github.com/farm-operations-api/internal/dto"
	"github.com/farm-operations-api/internal/service"
)

type EmployeeHandler struct {
	base
	empService service.EmployeeService
}

func NewEmployeeHandler(empService service.EmployeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		base:       newBase(logger),
		empService: empService,
	}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	emp, err := h.empService.Create(r.Context(), scopeFrom(r), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, emp)
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	emps, err := h.empService.List(r.Context(), scopeFrom(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, orEmpty(emps))
}

func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "employee")
	if !ok {
		return
	}

	emp, err := h.empService.GetByID(r.Context(), scopeFrom(r), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, emp)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "employee")
	if !ok {
		return
	}

	emp, err := h.empService.SoftDelete(r.Context(), scopeFrom(r), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.DeleteEmployeeResponse{
		Message:  "Employee deactivated",
		Employee: emp,
	})
}

func (h *EmployeeHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "employee")
	if !ok {
		return
	}

	tools, err := h.empService.ListAssignedTools(r.Context(), scopeFrom(r), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, orEmpty(tools))
}

func (h *EmployeeHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "employee")
	if !ok {
		return
	}

	tasks, err := h.empService.ListAssignedTasks(r.Context(), scopeFrom(r), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, orEmpty(tasks))
}
