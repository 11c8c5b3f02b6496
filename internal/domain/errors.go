package domain

import (
	"errors"
	"fmt"
)

// Категории ошибок. Граница HTTP сопоставляет каждой категории свой статус.
var (
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("access denied")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrDuplicateKey       = errors.New("already exists")
	ErrTransient          = errors.New("store temporarily unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Определение бизнес-ошибок
var (
	ErrDepartmentNotFound     = fmt.Errorf("department %w", ErrNotFound)
	ErrUserNotFound           = fmt.Errorf("user %w", ErrNotFound)
	ErrEmployeeNotFound       = fmt.Errorf("employee %w", ErrNotFound)
	ErrToolNotFound           = fmt.Errorf("tool %w", ErrNotFound)
	ErrTaskNotFound           = fmt.Errorf("task %w", ErrNotFound)
	ErrToolAssignmentNotFound = fmt.Errorf("tool assignment %w", ErrNotFound)
	ErrTaskAssignmentNotFound = fmt.Errorf("task assignment %w", ErrNotFound)

	ErrToolNotAvailable = fmt.Errorf("%w: tool is not available for assignment", ErrConflict)

	ErrDuplicateEmployeeEmail = fmt.Errorf("employee with this email %w", ErrDuplicateKey)
	ErrDuplicateSerialNumber  = fmt.Errorf("tool with this serial number %w", ErrDuplicateKey)
	ErrDuplicateUser          = fmt.Errorf("username or email %w", ErrDuplicateKey)

	ErrDepartmentRequired   = fmt.Errorf("%w: department_id is required", ErrValidation)
	ErrForeignDepartment    = fmt.Errorf("%w: cannot act outside own department", ErrForbidden)
	ErrOwnerOnly            = fmt.Errorf("%w: only farm owner can perform this action", ErrForbidden)
	ErrNoDepartmentAccess   = fmt.Errorf("%w: insufficient permissions", ErrForbidden)
	ErrSupervisorDepartment = fmt.Errorf("%w: supervisor must belong to a department", ErrValidation)
)

// ValidationError описывает некорректное значение конкретного поля
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is позволяет сопоставлять ValidationError с ErrValidation через errors.Is
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError создаёт ошибку валидации поля
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
