package repository

import (
	"context"

	"github.com/farm-operations-api/internal/domain"
	"gorm.io/gorm"
)

// DashboardRepository определяет интерфейс агрегатных запросов
type DashboardRepository interface {
	Totals(ctx context.Context, scope domain.Scope) (*domain.Dashboard, error)
	DepartmentBreakdown(ctx context.Context) ([]domain.DepartmentStats, error)
	DepartmentReports(ctx context.Context) ([]domain.DepartmentReport, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository создаёт новый экземпляр репозитория
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) Totals(ctx context.Context, scope domain.Scope) (*domain.Dashboard, error) {
	db := r.db.WithContext(ctx)
	var result domain.Dashboard

	err := applyScope(db.Model(&domain.Employee{}).Where("is_active = ?", true), scope, "department_id").
		Count(&result.TotalEmployees).Error
	if err != nil {
		return nil, translateError(err, nil)
	}

	err = applyScope(db.Model(&domain.Tool{}), scope, "department_id").
		Count(&result.TotalTools).Error
	if err != nil {
		return nil, translateError(err, nil)
	}

	err = applyScope(db.Model(&domain.Task{}).Where("status <> ?", domain.TaskStatusCompleted), scope, "department_id").
		Count(&result.PendingTasks).Error
	if err != nil {
		return nil, translateError(err, nil)
	}

	openAssignments := db.Model(&domain.ToolAssignment{}).
		Joins("JOIN tools ON tools.id = tool_assignments.tool_id").
		Where("tool_assignments.returned_at IS NULL")
	err = applyScope(openAssignments, scope, "tools.department_id").
		Count(&result.ActiveToolAssignments).Error
	if err != nil {
		return nil, translateError(err, nil)
	}

	return &result, nil
}

// Разбивка строится от таблицы отделов через LEFT JOIN, поэтому
// отдел без работников, инструментов и задач попадает в результат с нулями.
const departmentBreakdownQuery = `
	SELECT
		d.id AS department_id,
		d.name AS department_name,
		COUNT(DISTINCT e.id) AS employee_count,
		COUNT(DISTINCT t.id) AS tool_count,
		COUNT(DISTINCT tk.id) AS task_count
	FROM departments d
	LEFT JOIN employees e ON e.department_id = d.id AND e.is_active = ?
	LEFT JOIN tools t ON t.department_id = d.id
	LEFT JOIN tasks tk ON tk.department_id = d.id AND tk.status <> ?
	GROUP BY d.id, d.name
	ORDER BY d.name
`

func (r *dashboardRepository) DepartmentBreakdown(ctx context.Context) ([]domain.DepartmentStats, error) {
	stats := make([]domain.DepartmentStats, 0)
	err := r.db.WithContext(ctx).
		Raw(departmentBreakdownQuery, true, domain.TaskStatusCompleted).
		Scan(&stats).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return stats, nil
}

const departmentReportQuery = `
	SELECT
		d.id AS department_id,
		d.name AS department_name,
		d.description AS description,
		COUNT(DISTINCT e.id) AS total_employees,
		COUNT(DISTINCT CASE WHEN e.is_active = ? THEN e.id END) AS active_employees,
		COUNT(DISTINCT t.id) AS total_tools,
		COUNT(DISTINCT CASE WHEN t.status = ? THEN t.id END) AS available_tools,
		COUNT(DISTINCT CASE WHEN t.status = ? THEN t.id END) AS assigned_tools,
		COUNT(DISTINCT tk.id) AS total_tasks,
		COUNT(DISTINCT CASE WHEN tk.status = ? THEN tk.id END) AS pending_tasks,
		COUNT(DISTINCT CASE WHEN tk.status = ? THEN tk.id END) AS completed_tasks
	FROM departments d
	LEFT JOIN employees e ON e.department_id = d.id
	LEFT JOIN tools t ON t.department_id = d.id
	LEFT JOIN tasks tk ON tk.department_id = d.id
	GROUP BY d.id, d.name, d.description
	ORDER BY d.name
`

func (r *dashboardRepository) DepartmentReports(ctx context.Context) ([]domain.DepartmentReport, error) {
	reports := make([]domain.DepartmentReport, 0)
	err := r.db.WithContext(ctx).
		Raw(departmentReportQuery,
			true,
			domain.ToolStatusAvailable,
			domain.ToolStatusAssigned,
			domain.TaskStatusPending,
			domain.TaskStatusCompleted,
		).
		Scan(&reports).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return reports, nil
}
