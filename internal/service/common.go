package service

import (
	"errors"
	"fmt"
	"strings"

	"shopflow/internal/apperr"
	"shopflow/internal/repository"
	"shopflow/pkg/validator"
)

// Actor is the authenticated caller. A zero ID means the system itself.
type Actor struct {
	ID    uint
	Email string
	Role  string
}

func (a Actor) UserID() *uint {
	if a.ID == 0 {
		return nil
	}
	id := a.ID
	return &id
}

const errInternal = "Internal server error"

// storeErr converts a repository failure into an apperr value.
// notFound is the client message used for repository.ErrNotFound.
func storeErr(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if notFound != "" && errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(notFound)
	}
	if errors.Is(err, repository.ErrCheckFailed) {
		if repository.Constraint(err) == "products_quantity_check" {
			return ErrInsufficientStock
		}
		return apperr.Validation("Value is out of the allowed range")
	}
	return apperr.Internal(errInternal, err)
}

// validate runs struct tags and reports the first failure as a validation error.
func validate(in interface{}) error {
	errs := validator.ValidateStruct(in)
	if len(errs) == 0 {
		return nil
	}
	return apperr.Validation(errs[0].Message()).WithField(errs[0].FailedField)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
