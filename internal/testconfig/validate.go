package testconfig

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNoQuestions is returned for a configuration with an empty or missing
	// question list.
	ErrNoQuestions = errors.New("test has no questions")

	// ErrInvalidTimeLimit is returned when the time limit is not positive.
	ErrInvalidTimeLimit = errors.New("time limit must be greater than zero")
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator instance. Field names in errors use
// the JSON tag so messages match the wire format.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks a configuration before a session may start. Empty question
// lists and non-positive time limits map to their sentinel errors; any other
// structural problem is reported as a *ValidationError.
func Validate(cfg *TestConfiguration) error {
	if cfg == nil || len(cfg.Questions) == 0 {
		return ErrNoQuestions
	}
	if cfg.TimeLimit <= 0 {
		return ErrInvalidTimeLimit
	}
	if err := CheckTotal(cfg); err != nil {
		return err
	}
	if err := Validator().Struct(cfg); err != nil {
		return newValidationError(err)
	}
	return nil
}

// CheckTotal rejects a declared totalQuestions that differs from the
// number of questions. Zero means not declared.
func CheckTotal(cfg *TestConfiguration) error {
	if cfg.TotalQuestions == 0 || cfg.TotalQuestions == len(cfg.Questions) {
		return nil
	}
	return &ValidationError{Fields: map[string]string{
		"totalQuestions": fmt.Sprintf("is %d but the test has %d questions", cfg.TotalQuestions, len(cfg.Questions)),
	}}
}

// ValidationError lists field-level problems keyed by JSON path.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v))
	}
	return "invalid test configuration: " + strings.Join(parts, "; ")
}

func newValidationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		fields[path] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len":
		return fmt.Sprintf("must have exactly %s entries", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	default:
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}
