package service

import (
	"context"
	"strings"
	"time"

	"github.com/farm-operations-api/internal/domain"
	"github.com/farm-operations-api/internal/dto"
	"github.com/farm-operations-api/internal/repository"
)

const dateLayout = "2006-01-02"

// ToolService определяет интерфейс бизнес-логики для инструментов
type ToolService interface {
	Create(ctx context.Context, scope domain.Scope, req *dto.CreateToolRequest) (*domain.Tool, error)
	GetByID(ctx context.Context, scope domain.Scope, id int64) (*domain.Tool, error)
	List(ctx context.Context, scope domain.Scope) ([]domain.Tool, error)
}

type toolService struct {
	toolRepo repository.ToolRepository
	deptRepo repository.DepartmentRepository
}

// NewToolService создаёт новый экземпляр сервиса
func NewToolService(toolRepo repository.ToolRepository, deptRepo repository.DepartmentRepository) ToolService {
	return &toolService{
		toolRepo: toolRepo,
		deptRepo: deptRepo,
	}
}

func (s *toolService) Create(ctx context.Context, scope domain.Scope, req *dto.CreateToolRequest) (*domain.Tool, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}

	tool := &domain.Tool{
		Name:        strings.TrimSpace(req.Name),
		Type:        strings.TrimSpace(req.Type),
		Description: strings.TrimSpace(req.Description),
		Status:      domain.ToolStatusAvailable,
	}
	if tool.Name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}

	if req.SerialNumber != nil {
		if serial := strings.TrimSpace(*req.SerialNumber); serial != "" {
			tool.SerialNumber = &serial
		}
	}

	purchaseDate, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		return nil, err
	}
	tool.PurchaseDate = purchaseDate

	deptID, err := resolveDepartment(ctx, s.deptRepo, scope, req.DepartmentID)
	if err != nil {
		return nil, err
	}
	tool.DepartmentID = deptID

	if err := s.toolRepo.Create(ctx, tool); err != nil {
		return nil, err
	}

	return tool, nil
}

func (s *toolService) GetByID(ctx context.Context, scope domain.Scope, id int64) (*domain.Tool, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}
	return s.toolRepo.GetByID(ctx, scope, id)
}

func (s *toolService) List(ctx context.Context, scope domain.Scope) ([]domain.Tool, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}
	return s.toolRepo.List(ctx, scope)
}

// parseDate разбирает необязательную дату в формате YYYY-MM-DD
func parseDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, domain.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return &parsed, nil
}
