package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// report fields by their file key
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// FieldError is one rejected setting
type FieldError struct {
	Field   string
	Message string
	Value   any
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s (got %v)", e.Field, e.Message, e.Value)
}

// ValidationError lists every rejected setting
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Validate checks the struct tags and the segment seeds
func (c *Config) Validate() error {
	verr := &ValidationError{}
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		for _, e := range fieldErrs {
			verr.Fields = append(verr.Fields, FieldError{
				Field:   strings.TrimPrefix(e.Namespace(), "Config."),
				Message: formatValidationMessage(e),
				Value:   e.Value(),
			})
		}
	}

	for i, s := range c.Segments {
		if s.Start < 0 || s.End <= s.Start {
			verr.Fields = append(verr.Fields, FieldError{
				Field:   fmt.Sprintf("segments[%d]", i),
				Message: "must have 0 <= start < end",
				Value:   s,
			})
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func formatValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "gtefield":
		return fmt.Sprintf("must not be less than %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "hostname|ip":
		return "must be a hostname or IP address"
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
