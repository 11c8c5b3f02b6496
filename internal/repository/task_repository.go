package repository

import (
	"context"

	"github.com/farm-operations-api/internal/domain"
	"gorm.io/gorm"
)

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, scope domain.Scope, id int64) (*domain.Task, error)
	List(ctx context.Context, scope domain.Scope) ([]domain.Task, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository создаёт новый экземпляр репозитория
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) scoped(ctx context.Context, scope domain.Scope) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Select("tasks.*, departments.name AS department_name").
		Joins("LEFT JOIN departments ON departments.id = tasks.department_id")
	return applyScope(query, scope, "tasks.department_id")
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	err := r.db.WithContext(ctx).Create(task).Error
	return translateWriteError(err, nil)
}

func (r *taskRepository) GetByID(ctx context.Context, scope domain.Scope, id int64) (*domain.Task, error) {
	var task domain.Task
	err := r.scoped(ctx, scope).Where("tasks.id = ?", id).First(&task).Error
	if err != nil {
		return nil, translateError(err, domain.ErrTaskNotFound)
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, scope domain.Scope) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	err := r.scoped(ctx, scope).
		Order("tasks.created_at DESC, tasks.id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return tasks, nil
}
