package service

import (
	"context"

	"github.com/farm-operations-api/internal/domain"
	"github.com/farm-operations-api/internal/repository"
)

// DepartmentService определяет интерфейс бизнес-логики для отделов
type DepartmentService interface {
	List(ctx context.Context, identity domain.Identity) ([]domain.Department, error)
}

type departmentService struct {
	deptRepo repository.DepartmentRepository
}

// NewDepartmentService создаёт новый экземпляр сервиса
func NewDepartmentService(deptRepo repository.DepartmentRepository) DepartmentService {
	return &departmentService{deptRepo: deptRepo}
}

func (s *departmentService) List(ctx context.Context, identity domain.Identity) ([]domain.Department, error) {
	if !identity.IsOwner() {
		return nil, domain.ErrOwnerOnly
	}
	return s.deptRepo.List(ctx)
}

// resolveDepartment определяет отдел новой записи и, для владельца, проверяет его существование
func resolveDepartment(ctx context.Context, deptRepo repository.DepartmentRepository, scope domain.Scope, requested *int64) (int64, error) {
	deptID, err := scope.DepartmentForCreate(requested)
	if err != nil {
		return 0, err
	}
	if scope.IsUnrestricted() {
		if _, err := deptRepo.GetByID(ctx, deptID); err != nil {
			return 0, err
		}
	}
	return deptID, nil
}
