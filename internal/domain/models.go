package domain

import (
	"time"
)

// Роли пользователей системы
const (
	RoleFarmOwner  = "farm_owner"
	RoleSupervisor = "supervisor"
)

// Статусы инструмента
const (
	ToolStatusAvailable = "available"
	ToolStatusAssigned  = "assigned"
)

// Статусы и приоритеты задач
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"

	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Department представляет отдел фермы
type Department struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName задаёт имя таблицы для GORM
func (Department) TableName() string {
	return "departments"
}

// User представляет учётную запись владельца фермы или руководителя отдела
type User struct {
	ID           int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string     `json:"username" gorm:"type:varchar(50);not null;uniqueIndex"`
	Email        string     `json:"email" gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255);not null"`
	Role         string     `json:"role" gorm:"type:varchar(20);not null"`
	DepartmentID *int64     `json:"department_id" gorm:"index"`
	IsActive     bool       `json:"is_active" gorm:"not null;default:true"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	DepartmentName *string `json:"department_name" gorm:"->;-:migration"`
}

// TableName задаёт имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// Employee представляет работника фермы
type Employee struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(50);not null"`
	LastName     string    `json:"last_name" gorm:"type:varchar(50);not null"`
	Email        string    `json:"email" gorm:"type:varchar(100);not null;uniqueIndex"`
	Phone        string    `json:"phone" gorm:"type:varchar(20)"`
	Position     string    `json:"position" gorm:"type:varchar(100)"`
	DepartmentID int64     `json:"department_id" gorm:"not null;index"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	DepartmentName *string `json:"department_name" gorm:"->;-:migration"`
}

// TableName задаёт имя таблицы для GORM
func (Employee) TableName() string {
	return "employees"
}

// Tool представляет единицу инвентаря отдела
type Tool struct {
	ID           int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string     `json:"name" gorm:"type:varchar(100);not null"`
	Type         string     `json:"type" gorm:"type:varchar(50)"`
	Description  string     `json:"description" gorm:"type:text"`
	SerialNumber *string    `json:"serial_number" gorm:"type:varchar(100);uniqueIndex"`
	PurchaseDate *time.Time `json:"purchase_date" gorm:"type:date"`
	DepartmentID int64      `json:"department_id" gorm:"not null;index"`
	Status       string     `json:"status" gorm:"type:varchar(20);not null;default:available"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`

	DepartmentName *string `json:"department_name" gorm:"->;-:migration"`
}

// TableName задаёт имя таблицы для GORM
func (Tool) TableName() string {
	return "tools"
}

// Task представляет задачу отдела
type Task struct {
	ID           int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string     `json:"title" gorm:"type:varchar(200);not null"`
	Description  string     `json:"description" gorm:"type:text"`
	Priority     string     `json:"priority" gorm:"type:varchar(10);not null;default:medium"`
	Status       string     `json:"status" gorm:"type:varchar(20);not null;default:pending"`
	DueDate      *time.Time `json:"due_date" gorm:"type:date"`
	DepartmentID int64      `json:"department_id" gorm:"not null;index"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`

	DepartmentName *string `json:"department_name" gorm:"->;-:migration"`
}

// TableName задаёт имя таблицы для GORM
func (Task) TableName() string {
	return "tasks"
}

// ToolAssignment - выдача инструмента работнику.
// Открытая выдача (ReturnedAt == nil) у инструмента может быть только одна.
type ToolAssignment struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	EmployeeID int64      `json:"employee_id" gorm:"not null;index"`
	ToolID     int64      `json:"tool_id" gorm:"not null;index"`
	AssignedAt time.Time  `json:"assigned_at" gorm:"not null"`
	ReturnedAt *time.Time `json:"returned_at"`
	Notes      string     `json:"notes" gorm:"type:text"`
}

// TableName задаёт имя таблицы для GORM
func (ToolAssignment) TableName() string {
	return "tool_assignments"
}

// IsOpen сообщает, что инструмент ещё не возвращён
func (a *ToolAssignment) IsOpen() bool {
	return a.ReturnedAt == nil
}

// TaskAssignment - назначение задачи работнику
type TaskAssignment struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	EmployeeID  int64      `json:"employee_id" gorm:"not null;index"`
	TaskID      int64      `json:"task_id" gorm:"not null;index"`
	AssignedAt  time.Time  `json:"assigned_at" gorm:"not null"`
	CompletedAt *time.Time `json:"completed_at"`
	Notes       string     `json:"notes" gorm:"type:text"`
}

// TableName задаёт имя таблицы для GORM
func (TaskAssignment) TableName() string {
	return "task_assignments"
}

// AssignedTool - инструмент, находящийся на руках у работника
type AssignedTool struct {
	Tool
	AssignmentID int64     `json:"assignment_id"`
	AssignedAt   time.Time `json:"assigned_at"`
	Notes        string    `json:"notes"`
}

// AssignedTask - задача, назначенная работнику
type AssignedTask struct {
	Task
	AssignmentID int64      `json:"assignment_id"`
	AssignedAt   time.Time  `json:"assigned_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	Notes        string     `json:"notes"`
}

// DepartmentStats - строка разбивки дашборда по отделам
type DepartmentStats struct {
	DepartmentID   int64  `json:"department_id"`
	DepartmentName string `json:"department_name"`
	EmployeeCount  int64  `json:"employee_count"`
	ToolCount      int64  `json:"tool_count"`
	TaskCount      int64  `json:"task_count"`
}

// Dashboard - сводные показатели для главной страницы
type Dashboard struct {
	TotalEmployees        int64             `json:"total_employees"`
	TotalTools            int64             `json:"total_tools"`
	PendingTasks          int64             `json:"pending_tasks"`
	ActiveToolAssignments int64             `json:"active_tool_assignments"`
	DepartmentBreakdown   []DepartmentStats `json:"department_breakdown,omitempty"`
}

// DepartmentReport - расширенный отчёт по отделу для владельца фермы
type DepartmentReport struct {
	DepartmentID    int64  `json:"id"`
	DepartmentName  string `json:"department_name"`
	Description     string `json:"description"`
	TotalEmployees  int64  `json:"total_employees"`
	ActiveEmployees int64  `json:"active_employees"`
	TotalTools      int64  `json:"total_tools"`
	AvailableTools  int64  `json:"available_tools"`
	AssignedTools   int64  `json:"assigned_tools"`
	TotalTasks      int64  `json:"total_tasks"`
	PendingTasks    int64  `json:"pending_tasks"`
	CompletedTasks  int64  `json:"completed_tasks"`
}
