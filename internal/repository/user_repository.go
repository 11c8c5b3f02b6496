package repository

import (
	"context"
	"time"

	"github.com/farm-operations-api/internal/domain"
	"gorm.io/gorm"
)

// UserRepository определяет интерфейс для работы с учётными записями
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetActiveByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateStatus(ctx context.Context, id int64, active bool) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository создаёт новый экземпляр репозитория
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) withDepartment(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Select("users.*, departments.name AS department_name").
		Joins("LEFT JOIN departments ON departments.id = users.department_id")
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	return translateWriteError(err, domain.ErrDuplicateUser)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.withDepartment(ctx).Where("users.id = ?", id).First(&user).Error
	if err != nil {
		return nil, translateError(err, domain.ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) GetActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.withDepartment(ctx).
		Where("users.username = ? AND users.is_active = ?", username, true).
		First(&user).Error
	if err != nil {
		return nil, translateError(err, domain.ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.withDepartment(ctx).Order("users.created_at DESC, users.id DESC").Find(&users).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return users, nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, id int64, active bool) (*domain.User, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": active, "updated_at": time.Now()})
	if result.Error != nil {
		return nil, translateError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
	return translateError(err, nil)
}
