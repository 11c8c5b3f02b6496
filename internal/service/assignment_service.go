package service

import (
	"context"
	"strings"
	"time"

	"github.com/farm-operations-api/internal/domain"
	"github.com/farm-operations-api/internal/dto"
	"github.com/farm-operations-api/internal/repository"
)

// AssignmentService определяет интерфейс выдачи инструментов и назначения задач
type AssignmentService interface {
	AssignTool(ctx context.Context, scope domain.Scope, req *dto.AssignToolRequest) (*domain.ToolAssignment, error)
	ReturnTool(ctx context.Context, scope domain.Scope, id int64, req *dto.AssignmentNotesRequest) (*domain.ToolAssignment, error)
	AssignTask(ctx context.Context, scope domain.Scope, req *dto.AssignTaskRequest) (*domain.TaskAssignment, error)
	CompleteTask(ctx context.Context, scope domain.Scope, id int64, req *dto.AssignmentNotesRequest) (*domain.TaskAssignment, error)
}

type assignmentService struct {
	repo repository.AssignmentRepository
	now  func() time.Time
}

// NewAssignmentService создаёт новый экземпляр сервиса
func NewAssignmentService(repo repository.AssignmentRepository) AssignmentService {
	return &assignmentService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *assignmentService) AssignTool(ctx context.Context, scope domain.Scope, req *dto.AssignToolRequest) (*domain.ToolAssignment, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}
	if req.EmployeeID <= 0 || req.ToolID <= 0 {
		return nil, domain.NewValidationError("employee_id, tool_id", "are required")
	}

	assignment := &domain.ToolAssignment{
		EmployeeID: req.EmployeeID,
		ToolID:     req.ToolID,
		AssignedAt: s.now().UTC(),
		Notes:      strings.TrimSpace(req.Notes),
	}
	if err := s.repo.AssignTool(ctx, scope, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *assignmentService) ReturnTool(ctx context.Context, scope domain.Scope, id int64, req *dto.AssignmentNotesRequest) (*domain.ToolAssignment, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}
	return s.repo.ReturnTool(ctx, scope, id, s.now().UTC(), strings.TrimSpace(req.Notes))
}

func (s *assignmentService) AssignTask(ctx context.Context, scope domain.Scope, req *dto.AssignTaskRequest) (*domain.TaskAssignment, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}
	if req.EmployeeID <= 0 || req.TaskID <= 0 {
		return nil, domain.NewValidationError("employee_id, task_id", "are required")
	}

	assignment := &domain.TaskAssignment{
		EmployeeID: req.EmployeeID,
		TaskID:     req.TaskID,
		AssignedAt: s.now().UTC(),
		Notes:      strings.TrimSpace(req.Notes),
	}
	if err := s.repo.AssignTask(ctx, scope, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *assignmentService) CompleteTask(ctx context.Context, scope domain.Scope, id int64, req *dto.AssignmentNotesRequest) (*domain.TaskAssignment, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}
	return s.repo.CompleteTask(ctx, scope, id, s.now().UTC(), strings.TrimSpace(req.Notes))
}
