package service

import (
	"context"
	"strings"

	"github.com/farm-operations-api/internal/domain"
	"github.com/farm-operations-api/internal/dto"
	"github.com/farm-operations-api/internal/repository"
)

// TaskService определяет интерфейс бизнес-логики для задач
type TaskService interface {
	Create(ctx context.Context, scope domain.Scope, req *dto.CreateTaskRequest) (*domain.Task, error)
	GetByID(ctx context.Context, scope domain.Scope, id int64) (*domain.Task, error)
	List(ctx context.Context, scope domain.Scope) ([]domain.Task, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
	deptRepo repository.DepartmentRepository
}

// NewTaskService создаёт новый экземпляр сервиса
func NewTaskService(taskRepo repository.TaskRepository, deptRepo repository.DepartmentRepository) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		deptRepo: deptRepo,
	}
}

func (s *taskService) Create(ctx context.Context, scope domain.Scope, req *dto.CreateTaskRequest) (*domain.Task, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Priority:    req.Priority,
		Status:      req.Status,
	}
	if task.Title == "" {
		return nil, domain.NewValidationError("title", "is required")
	}
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}

	dueDate, err := parseDate("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}
	task.DueDate = dueDate

	deptID, err := resolveDepartment(ctx, s.deptRepo, scope, req.DepartmentID)
	if err != nil {
		return nil, err
	}
	task.DepartmentID = deptID

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, scope domain.Scope, id int64) (*domain.Task, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}
	return s.taskRepo.GetByID(ctx, scope, id)
}

func (s *taskService) List(ctx context.Context, scope domain.Scope) ([]domain.Task, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}
	return s.taskRepo.List(ctx, scope)
}
