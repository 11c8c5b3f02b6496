package dto

import (
	"time"

	"github.com/farm-operations-api/internal/domain"
)

// LoginRequest - запрос на вход
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginResponse - токен сессии и профиль пользователя
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// RegisterUserRequest - запрос на создание учётной записи (только владелец)
type RegisterUserRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=50"`
	Email        string `json:"email" validate:"required,email,max=100"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	Role         string `json:"role" validate:"required,oneof=farm_owner supervisor"`
	DepartmentID *int64 `json:"department_id" validate:"required_if=Role supervisor,omitempty,min=1"`
}

// UpdateUserStatusRequest - запрос на активацию/деактивацию пользователя
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// CreateEmployeeRequest - запрос на создание работника
type CreateEmployeeRequest struct {
	FirstName    string `json:"first_name" validate:"required,max=50"`
	LastName     string `json:"last_name" validate:"required,max=50"`
	Email        string `json:"email" validate:"required,email,max=100"`
	Phone        string `json:"phone" validate:"omitempty,max=20"`
	Position     string `json:"position" validate:"omitempty,max=100"`
	DepartmentID *int64 `json:"department_id" validate:"omitempty,min=1"`
}

// CreateToolRequest - запрос на создание инструмента
type CreateToolRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Type         string  `json:"type" validate:"omitempty,max=50"`
	Description  string  `json:"description"`
	SerialNumber *string `json:"serial_number" validate:"omitempty,max=100"`
	PurchaseDate *string `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	DepartmentID *int64  `json:"department_id" validate:"omitempty,min=1"`
}

// CreateTaskRequest - запрос на создание задачи
type CreateTaskRequest struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Description  string  `json:"description"`
	Priority     string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status       string  `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	DueDate      *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	DepartmentID *int64  `json:"department_id" validate:"omitempty,min=1"`
}

// AssignToolRequest - запрос на выдачу инструмента
type AssignToolRequest struct {
	EmployeeID int64  `json:"employee_id" validate:"required,min=1"`
	ToolID     int64  `json:"tool_id" validate:"required,min=1"`
	Notes      string `json:"notes" validate:"omitempty,max=1000"`
}

// AssignTaskRequest - запрос на назначение задачи
type AssignTaskRequest struct {
	EmployeeID int64  `json:"employee_id" validate:"required,min=1"`
	TaskID     int64  `json:"task_id" validate:"required,min=1"`
	Notes      string `json:"notes" validate:"omitempty,max=1000"`
}

// AssignmentNotesRequest - примечания при возврате инструмента или завершении задачи
type AssignmentNotesRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

// DeleteEmployeeResponse - ответ на мягкое удаление работника
type DeleteEmployeeResponse struct {
	Message  string           `json:"message"`
	Employee *domain.Employee `json:"employee"`
}

// ToolReturnResponse - ответ на возврат инструмента
type ToolReturnResponse struct {
	Message    string                 `json:"message"`
	Assignment *domain.ToolAssignment `json:"assignment"`
}

// TaskCompleteResponse - ответ на завершение задачи
type TaskCompleteResponse struct {
	Message    string                 `json:"message"`
	Assignment *domain.TaskAssignment `json:"assignment"`
}

// UserStatusResponse - ответ на изменение статуса пользователя
type UserStatusResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// HealthResponse - ответ проверки состояния
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
