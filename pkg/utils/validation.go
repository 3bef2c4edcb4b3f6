package utils

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "graphedit/pkg/errors"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator registers the graph-file tags. "singleline" accepts text that
// fits on one line of a graph file; empty values are left to "required".
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\r\n")
	})
	return v
}

// ValidateStruct validates a struct based on its validation tags. The
// returned Validation error carries one detail per failing field.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return pkgerrors.NewInternalError(fmt.Sprintf("validate %T", s)).WithCause(err)
	}

	messages := make([]string, 0, len(fieldErrs))
	details := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := describe(fe)
		messages = append(messages, msg)
		details[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return pkgerrors.NewValidationError(strings.Join(messages, "; ")).WithDetails(details)
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "singleline":
		return fmt.Sprintf("%s %q must fit on one line", field, fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
