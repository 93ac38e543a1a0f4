package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		_, ok := ParseStatus(fl.Field().String())
		return ok
	}); err != nil {
		panic(err)
	}
	return v
}

// FieldError describes one failed rule.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

func (f FieldError) String() string {
	switch f.Rule {
	case "required":
		return f.Field + " is required"
	case "email":
		return f.Field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", f.Field, f.Param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", f.Field, f.Param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", f.Field, f.Param)
	case "status":
		return f.Field + " must be one of upcoming, in progress, completed"
	default:
		return fmt.Sprintf("%s failed %s", f.Field, f.Rule)
	}
}

// ValidationError reports a record or request that violates its field rules.
type ValidationError struct {
	Type   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("%s: %s", e.Type, strings.Join(parts, "; "))
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Validate checks v against its `validate` struct tags.
func Validate(v any) error {
	return validateAs(typeName(v), v)
}

func validateAs(name string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%s: %w", name, err)
	}
	out := &ValidationError{Type: name}
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		out.Fields = append(out.Fields, FieldError{Field: field, Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "value"
	}
	return t.Name()
}
