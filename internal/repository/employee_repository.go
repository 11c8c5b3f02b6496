package repository

import (
	"context"

	"github.com/farm-operations-api/internal/domain"
	"gorm.io/gorm"
)

// EmployeeRepository определяет интерфейс для работы с работниками.
// Все чтения видят только активных работников внутри области видимости.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, scope domain.Scope, id int64) (*domain.Employee, error)
	List(ctx context.Context, scope domain.Scope) ([]domain.Employee, error)
	SoftDelete(ctx context.Context, scope domain.Scope, id int64) (*domain.Employee, error)
	ListAssignedTools(ctx context.Context, scope domain.Scope, employeeID int64) ([]domain.AssignedTool, error)
	ListAssignedTasks(ctx context.Context, scope domain.Scope, employeeID int64) ([]domain.AssignedTask, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository создаёт новый экземпляр репозитория
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) active(ctx context.Context, scope domain.Scope) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		Select("employees.*, departments.name AS department_name").
		Joins("LEFT JOIN departments ON departments.id = employees.department_id").
		Where("employees.is_active = ?", true)
	return applyScope(query, scope, "employees.department_id")
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	err := r.db.WithContext(ctx).Create(emp).Error
	return translateWriteError(err, domain.ErrDuplicateEmployeeEmail)
}

func (r *employeeRepository) GetByID(ctx context.Context, scope domain.Scope, id int64) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.active(ctx, scope).Where("employees.id = ?", id).First(&emp).Error
	if err != nil {
		return nil, translateError(err, domain.ErrEmployeeNotFound)
	}
	return &emp, nil
}

func (r *employeeRepository) List(ctx context.Context, scope domain.Scope) ([]domain.Employee, error) {
	employees := make([]domain.Employee, 0)
	err := r.active(ctx, scope).
		Order("employees.created_at DESC, employees.id DESC").
		Find(&employees).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return employees, nil
}

func (r *employeeRepository) SoftDelete(ctx context.Context, scope domain.Scope, id int64) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&domain.Employee{}).Where("id = ? AND is_active = ?", id, true)
		result := applyScope(query, scope, "department_id").Update("is_active", false)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&emp, id).Error
	})
	if err != nil {
		return nil, translateError(err, domain.ErrEmployeeNotFound)
	}
	return &emp, nil
}

func (r *employeeRepository) ListAssignedTools(ctx context.Context, scope domain.Scope, employeeID int64) ([]domain.AssignedTool, error) {
	tools := make([]domain.AssignedTool, 0)
	query := r.db.WithContext(ctx).
		Table("tools").
		Select("tools.*, departments.name AS department_name, tool_assignments.id AS assignment_id, tool_assignments.assigned_at, tool_assignments.notes").
		Joins("JOIN tool_assignments ON tool_assignments.tool_id = tools.id").
		Joins("JOIN employees ON employees.id = tool_assignments.employee_id").
		Joins("LEFT JOIN departments ON departments.id = tools.department_id").
		Where("tool_assignments.employee_id = ? AND tool_assignments.returned_at IS NULL", employeeID)
	err := applyScope(query, scope, "employees.department_id").
		Order("tool_assignments.assigned_at DESC, tool_assignments.id DESC").
		Scan(&tools).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return tools, nil
}

func (r *employeeRepository) ListAssignedTasks(ctx context.Context, scope domain.Scope, employeeID int64) ([]domain.AssignedTask, error) {
	tasks := make([]domain.AssignedTask, 0)
	query := r.db.WithContext(ctx).
		Table("tasks").
		Select("tasks.*, departments.name AS department_name, task_assignments.id AS assignment_id, task_assignments.assigned_at, task_assignments.completed_at, task_assignments.notes").
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Joins("JOIN employees ON employees.id = task_assignments.employee_id").
		Joins("LEFT JOIN departments ON departments.id = tasks.department_id").
		Where("task_assignments.employee_id = ?", employeeID)
	err := applyScope(query, scope, "employees.department_id").
		Order("task_assignments.assigned_at DESC, task_assignments.id DESC").
		Scan(&tasks).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return tasks, nil
}
