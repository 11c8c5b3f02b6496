package service

import (
	"context"
	"strings"

	"github.com/farm-operations-api/internal/domain"
	"github.com/farm-operations-api/internal/dto"
	"github.com/farm-operations-api/internal/repository"
)

// EmployeeService определяет интерфейс бизнес-логики для работников
type EmployeeService interface {
	Create(ctx context.Context, scope domain.Scope, req *dto.CreateEmployeeRequest) (*domain.Employee, error)
	GetByID(ctx context.Context, scope domain.Scope, id int64) (*domain.Employee, error)
	List(ctx context.Context, scope domain.Scope) ([]domain.Employee, error)
	SoftDelete(ctx context.Context, scope domain.Scope, id int64) (*domain.Employee, error)
	ListAssignedTools(ctx context.Context, scope domain.Scope, id int64) ([]domain.AssignedTool, error)
	ListAssignedTasks(ctx context.Context, scope domain.Scope, id int64) ([]domain.AssignedTask, error)
}

type employeeService struct {
	empRepo  repository.EmployeeRepository
	deptRepo repository.DepartmentRepository
}

// NewEmployeeService создаёт новый экземпляр сервиса
func NewEmployeeService(empRepo repository.EmployeeRepository, deptRepo repository.DepartmentRepository) EmployeeService {
	return &employeeService{
		empRepo:  empRepo,
		deptRepo: deptRepo,
	}
}

func (s *employeeService) Create(ctx context.Context, scope domain.Scope, req *dto.CreateEmployeeRequest) (*domain.Employee, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}

	emp := &domain.Employee{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Position:  strings.TrimSpace(req.Position),
		IsActive:  true,
	}

	switch {
	case emp.FirstName == "":
		return nil, domain.NewValidationError("first_name", "is required")
	case emp.LastName == "":
		return nil, domain.NewValidationError("last_name", "is required")
	case emp.Email == "":
		return nil, domain.NewValidationError("email", "is required")
	}

	deptID, err := resolveDepartment(ctx, s.deptRepo, scope, req.DepartmentID)
	if err != nil {
		return nil, err
	}
	emp.DepartmentID = deptID

	if err := s.empRepo.Create(ctx, emp); err != nil {
		return nil, err
	}

	return emp, nil
}

func (s *employeeService) GetByID(ctx context.Context, scope domain.Scope, id int64) (*domain.Employee, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}
	return s.empRepo.GetByID(ctx, scope, id)
}

func (s *employeeService) List(ctx context.Context, scope domain.Scope) ([]domain.Employee, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}
	return s.empRepo.List(ctx, scope)
}

func (s *employeeService) SoftDelete(ctx context.Context, scope domain.Scope, id int64) (*domain.Employee, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}
	return s.empRepo.SoftDelete(ctx, scope, id)
}

func (s *employeeService) ListAssignedTools(ctx context.Context, scope domain.Scope, id int64) ([]domain.AssignedTool, error) {
	if _, err := s.GetByID(ctx, scope, id); err != nil {
		return nil, err
	}
	return s.empRepo.ListAssignedTools(ctx, scope, id)
}

func (s *employeeService) ListAssignedTasks(ctx context.Context, scope domain.Scope, id int64) ([]domain.AssignedTask, error) {
	if _, err := s.GetByID(ctx, scope, id); err != nil {
		return nil, err
	}
	return s.empRepo.ListAssignedTasks(ctx, scope, id)
}
