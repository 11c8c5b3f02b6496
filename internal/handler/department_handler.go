package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/farm-operations-api/internal/report"
	"github.com/farm-operations-api/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DepartmentHandler struct {
	base
	deptService service.DepartmentService
	dashService service.DashboardService
}

func NewDepartmentHandler(
	deptService service.DepartmentService,
	dashService service.DashboardService,
	logger *slog.Logger,
) *DepartmentHandler {
	return &DepartmentHandler{
		base:        newBase(logger),
		deptService: deptService,
		dashService: dashService,
	}
}

func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	depts, err := h.deptService.List(r.Context(), identityFrom(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, orEmpty(depts))
}

func (h *DepartmentHandler) Report(w http.ResponseWriter, r *http.Request) {
	reports, err := h.dashService.DepartmentReports(r.Context(), identityFrom(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, orEmpty(reports))
}

// ReportXLSX отдаёт тот же отчёт по отделам в виде файла Excel
func (h *DepartmentHandler) ReportXLSX(w http.ResponseWriter, r *http.Request) {
	reports, err := h.dashService.DepartmentReports(r.Context(), identityFrom(r))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteDepartmentReport(&buf, reports); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="department-report.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write report", slog.Any("error", err))
	}
}
