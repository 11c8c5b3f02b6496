package repository

import (
	"context"

	"github.com/farm-operations-api/internal/domain"
	"gorm.io/gorm"
)

// ToolRepository определяет интерфейс для работы с инструментами
type ToolRepository interface {
	Create(ctx context.Context, tool *domain.Tool) error
	GetByID(ctx context.Context, scope domain.Scope, id int64) (*domain.Tool, error)
	List(ctx context.Context, scope domain.Scope) ([]domain.Tool, error)
}

type toolRepository struct {
	db *gorm.DB
}

// NewToolRepository создаёт новый экземпляр репозитория
func NewToolRepository(db *gorm.DB) ToolRepository {
	return &toolRepository{db: db}
}

func (r *toolRepository) scoped(ctx context.Context, scope domain.Scope) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&domain.Tool{}).
		Select("tools.*, departments.name AS department_name").
		Joins("LEFT JOIN departments ON departments.id = tools.department_id")
	return applyScope(query, scope, "tools.department_id")
}

func (r *toolRepository) Create(ctx context.Context, tool *domain.Tool) error {
	err := r.db.WithContext(ctx).Create(tool).Error
	return translateWriteError(err, domain.ErrDuplicateSerialNumber)
}

func (r *toolRepository) GetByID(ctx context.Context, scope domain.Scope, id int64) (*domain.Tool, error) {
	var tool domain.Tool
	err := r.scoped(ctx, scope).Where("tools.id = ?", id).First(&tool).Error
	if err != nil {
		return nil, translateError(err, domain.ErrToolNotFound)
	}
	return &tool, nil
}

func (r *toolRepository) List(ctx context.Context, scope domain.Scope) ([]domain.Tool, error) {
	tools := make([]domain.Tool, 0)
	err := r.scoped(ctx, scope).
		Order("tools.created_at DESC, tools.id DESC").
		Find(&tools).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return tools, nil
}
