package database

import (
	"context"
	"fmt"

	"github.com/farm-operations-api/internal/config"
	"github.com/farm-operations-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultDepartments - отделы, создаваемые при первом запуске
var DefaultDepartments = []domain.Department{
	{Name: "Crops", Description: "Field crops, planting and harvest"},
	{Name: "Livestock", Description: "Animal husbandry and feeding"},
	{Name: "Maintenance", Description: "Machinery, buildings and equipment upkeep"},
}

// PasswordHasher хеширует пароль начальной учётной записи
type PasswordHasher func(password string) (string, error)

// Seed идемпотентно создаёт отделы по умолчанию и учётную запись владельца
func Seed(ctx context.Context, db *gorm.DB, cfg config.SeedConfig, hash PasswordHasher) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dept := range DefaultDepartments {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dept).Error; err != nil {
				return fmt.Errorf("failed to seed department %s: %w", dept.Name, err)
			}
		}

		var count int64
		if err := tx.Model(&domain.User{}).Where("role = ?", domain.RoleFarmOwner).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count owners: %w", err)
		}
		if count > 0 {
			return nil
		}

		passwordHash, err := hash(cfg.OwnerPassword)
		if err != nil {
			return fmt.Errorf("failed to hash owner password: %w", err)
		}

		owner := &domain.User{
			Username:     cfg.OwnerUsername,
			Email:        cfg.OwnerEmail,
			PasswordHash: passwordHash,
			Role:         domain.RoleFarmOwner,
			IsActive:     true,
		}
		if err := tx.Create(owner).Error; err != nil {
			return fmt.Errorf("failed to seed owner: %w", err)
		}
		return nil
	})
}
