package repository

import (
	"github.com/farm-operations-api/internal/domain"
	"gorm.io/gorm"
)

// applyScope добавляет к запросу условие по отделу.
// Это единственное место, где фильтр области видимости превращается в SQL.
func applyScope(db *gorm.DB, scope domain.Scope, column string) *gorm.DB {
	if deptID, ok := scope.DepartmentID(); ok {
		return db.Where(column+" = ?", deptID)
	}
	if scope.IsDenied() {
		return db.Where("1 = 0")
	}
	return db
}
