package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/farm-operations-api/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// translateError приводит ошибки хранилища к категориям домена.
// notFound подставляется вместо gorm.ErrRecordNotFound.
func translateError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case isTransient(err):
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	return err
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	return pgconn.Timeout(err)
}

// translateWriteError дополнительно сопоставляет нарушения ограничений БД
func translateWriteError(err error, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case duplicate != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.ErrDepartmentNotFound
	}
	return translateError(err, nil)
}
