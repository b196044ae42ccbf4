package repository

import (
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrReferenced   = errors.New("record is still referenced")
	ErrCheckFailed  = errors.New("check constraint failed")
)

// postgres error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// ConstraintError is a unique, foreign key or check failure on a named constraint.
type ConstraintError struct {
	Err        error
	Constraint string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Constraint, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

func NewConstraintError(err error, constraint string) error {
	return errors.WithStack(&ConstraintError{Err: err, Constraint: constraint})
}

// Constraint returns the constraint name carried by err, if any.
func Constraint(err error) string {
	var ce *ConstraintError
	if stderrors.As(err, &ce) {
		return ce.Constraint
	}
	return ""
}

// translate maps driver failures onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.WithStack(ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return NewConstraintError(ErrDuplicateKey, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return NewConstraintError(ErrReferenced, pgErr.ConstraintName)
		case pgCheckViolation:
			return NewConstraintError(ErrCheckFailed, pgErr.ConstraintName)
		}
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.WithStack(ErrDuplicateKey)
	}
	if stderrors.Is(err, gorm.ErrForeignKeyViolated) {
		return errors.WithStack(ErrReferenced)
	}
	if stderrors.Is(err, gorm.ErrCheckConstraintViolated) {
		return errors.WithStack(ErrCheckFailed)
	}
	return errors.WithStack(err)
}
