package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

// Message renders a short human readable sentence for the failure.
func (e *ErrorResponse) Message() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.FailedField)
	case "email":
		return fmt.Sprintf("%s must be a valid email", e.FailedField)
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.FailedField, e.Value)
	case "max":
		return fmt.Sprintf("%s must be at most %s", e.FailedField, e.Value)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", e.FailedField, e.Value)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.FailedField, e.Value)
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color", e.FailedField)
	case "sku":
		return "SKU must be at least 3 characters"
	default:
		return fmt.Sprintf("%s is invalid", e.FailedField)
	}
}

var validate = validator.New()

func init() {
	// Report json names so errors point at request fields
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// SKU must have at least 3 characters once trimmed
	validate.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return len(strings.TrimSpace(fl.Field().String())) >= 3
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "body", Tag: "invalid"}}
		}
		for _, err := range verrs {
			var element ErrorResponse
			element.FailedField = err.Field()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}
