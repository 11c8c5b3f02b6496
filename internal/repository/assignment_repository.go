package repository

import (
	"context"
	"errors"
	"time"

	"github.com/farm-operations-api/internal/domain"
	"gorm.io/gorm"
)

// AssignmentRepository выполняет переходы состояний выдачи инструментов и назначения задач.
// Каждая операция - одна транзакция: при любой ошибке откатываются все шаги.
type AssignmentRepository interface {
	AssignTool(ctx context.Context, scope domain.Scope, assignment *domain.ToolAssignment) error
	ReturnTool(ctx context.Context, scope domain.Scope, id int64, returnedAt time.Time, notes string) (*domain.ToolAssignment, error)
	AssignTask(ctx context.Context, scope domain.Scope, assignment *domain.TaskAssignment) error
	CompleteTask(ctx context.Context, scope domain.Scope, id int64, completedAt time.Time, notes string) (*domain.TaskAssignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository создаёт новый экземпляр репозитория
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// activeEmployee проверяет, что работник существует, активен и виден в области
func activeEmployee(tx *gorm.DB, scope domain.Scope, id int64) error {
	var emp domain.Employee
	query := tx.Where("id = ? AND is_active = ?", id, true)
	err := applyScope(query, scope, "department_id").First(&emp).Error
	return translateError(err, domain.ErrEmployeeNotFound)
}

func (r *assignmentRepository) AssignTool(ctx context.Context, scope domain.Scope, assignment *domain.ToolAssignment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tool domain.Tool
		query := tx.Where("id = ?", assignment.ToolID)
		if err := applyScope(query, scope, "department_id").First(&tool).Error; err != nil {
			return translateError(err, domain.ErrToolNotFound)
		}
		if tool.Status != domain.ToolStatusAvailable {
			return domain.ErrToolNotAvailable
		}

		if err := activeEmployee(tx, scope, assignment.EmployeeID); err != nil {
			return err
		}

		// Условное обновление повторно проверяет статус внутри транзакции:
		// из двух конкурирующих выдач строку инструмента переведёт только одна.
		result := tx.Model(&domain.Tool{}).
			Where("id = ? AND status = ?", tool.ID, domain.ToolStatusAvailable).
			Update("status", domain.ToolStatusAssigned)
		if result.Error != nil {
			return translateError(result.Error, nil)
		}
		if result.RowsAffected == 0 {
			return domain.ErrToolNotAvailable
		}

		if err := tx.Create(assignment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrToolNotAvailable
			}
			return translateError(err, nil)
		}
		return nil
	})
	return translateError(err, nil)
}

func (r *assignmentRepository) ReturnTool(ctx context.Context, scope domain.Scope, id int64, returnedAt time.Time, notes string) (*domain.ToolAssignment, error) {
	var assignment domain.ToolAssignment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&domain.ToolAssignment{}).
			Select("tool_assignments.*").
			Joins("JOIN tools ON tools.id = tool_assignments.tool_id").
			Where("tool_assignments.id = ? AND tool_assignments.returned_at IS NULL", id)
		if err := applyScope(query, scope, "tools.department_id").First(&assignment).Error; err != nil {
			return translateError(err, domain.ErrToolAssignmentNotFound)
		}

		if notes != "" {
			assignment.Notes = notes
		}

		result := tx.Model(&domain.ToolAssignment{}).
			Where("id = ? AND returned_at IS NULL", id).
			Updates(map[string]any{"returned_at": returnedAt, "notes": assignment.Notes})
		if result.Error != nil {
			return translateError(result.Error, nil)
		}
		if result.RowsAffected == 0 {
			return domain.ErrToolAssignmentNotFound
		}

		err := tx.Model(&domain.Tool{}).
			Where("id = ?", assignment.ToolID).
			Update("status", domain.ToolStatusAvailable).Error
		if err != nil {
			return translateError(err, nil)
		}

		assignment.ReturnedAt = &returnedAt
		return nil
	})
	if err != nil {
		return nil, translateError(err, nil)
	}
	return &assignment, nil
}

func (r *assignmentRepository) AssignTask(ctx context.Context, scope domain.Scope, assignment *domain.TaskAssignment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := activeEmployee(tx, scope, assignment.EmployeeID); err != nil {
			return err
		}

		var task domain.Task
		query := tx.Where("id = ?", assignment.TaskID)
		if err := applyScope(query, scope, "department_id").First(&task).Error; err != nil {
			return translateError(err, domain.ErrTaskNotFound)
		}

		return translateError(tx.Create(assignment).Error, nil)
	})
	return translateError(err, nil)
}

func (r *assignmentRepository) CompleteTask(ctx context.Context, scope domain.Scope, id int64, completedAt time.Time, notes string) (*domain.TaskAssignment, error) {
	var assignment domain.TaskAssignment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&domain.TaskAssignment{}).
			Select("task_assignments.*").
			Joins("JOIN tasks ON tasks.id = task_assignments.task_id").
			Where("task_assignments.id = ?", id)
		if err := applyScope(query, scope, "tasks.department_id").First(&assignment).Error; err != nil {
			return translateError(err, domain.ErrTaskAssignmentNotFound)
		}

		if notes != "" {
			assignment.Notes = notes
		}

		result := tx.Model(&domain.TaskAssignment{}).
			Where("id = ?", id).
			Updates(map[string]any{"completed_at": completedAt, "notes": assignment.Notes})
		if result.Error != nil {
			return translateError(result.Error, nil)
		}
		if result.RowsAffected == 0 {
			return domain.ErrTaskAssignmentNotFound
		}

		assignment.CompletedAt = &completedAt
		return nil
	})
	if err != nil {
		return nil, translateError(err, nil)
	}
	return &assignment, nil
}
