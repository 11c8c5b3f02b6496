package service

import (
	"context"

	"github.com/farm-operations-api/internal/domain"
	"github.com/farm-operations-api/internal/repository"
)

// DashboardService собирает сводные показатели
type DashboardService interface {
	Get(ctx context.Context, scope domain.Scope) (*domain.Dashboard, error)
	DepartmentReports(ctx context.Context, identity domain.Identity) ([]domain.DepartmentReport, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService создаёт новый экземпляр сервиса
func NewDashboardService(repo repository.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo}
}

func (s *dashboardService) Get(ctx context.Context, scope domain.Scope) (*domain.Dashboard, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}

	dashboard, err := s.repo.Totals(ctx, scope)
	if err != nil {
		return nil, err
	}

	// Разбивка по отделам доступна только без ограничения области
	if scope.IsUnrestricted() {
		breakdown, err := s.repo.DepartmentBreakdown(ctx)
		if err != nil {
			return nil, err
		}
		dashboard.DepartmentBreakdown = breakdown
	}

	return dashboard, nil
}

func (s *dashboardService) DepartmentReports(ctx context.Context, identity domain.Identity) ([]domain.DepartmentReport, error) {
	if !identity.IsOwner() {
		return nil, domain.ErrOwnerOnly
	}
	return s.repo.DepartmentReports(ctx)
}
