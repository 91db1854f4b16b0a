package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a malformed request. It is returned before any
// state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: '%s' %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// fromValidator converts validator errors into a ValidationError for the
// first offending field.
func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Reason: err.Error()}
	}
	return formatSingleError(verrs[0])
}

func formatSingleError(err validator.FieldError) *ValidationError {
	field := fieldPath(err.Namespace())

	switch err.Tag() {
	case "required":
		return &ValidationError{Field: field, Reason: "is required"}
	case "min", "max":
		return &ValidationError{Field: field, Reason: "value out of allowed range"}
	case "oneof":
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be one of [%s]", err.Param())}
	default:
		return &ValidationError{Field: field, Reason: "is invalid"}
	}
}

// fieldPath drops the top-level struct name from a validator namespace,
// "SendAnnotation.annotation.id" -> "annotation.id".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{Field: typeErr.Field, Reason: "must be " + typeErr.Type.String()}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ValidationError{Reason: "malformed JSON"}
	}

	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return &ValidationError{Field: strings.Trim(name, `"`), Reason: "is not allowed"}
	}

	return &ValidationError{Reason: err.Error()}
}
