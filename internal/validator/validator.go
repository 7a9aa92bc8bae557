// Package validator checks HTTP request DTOs with go-playground/validator and
// turns its errors into field messages for API responses.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"collection-filter-service/internal/domain"
)

// slugPattern matches collection names as they appear in site paths.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// nameTags are the struct tags a field name is taken from, in order. Request
// DTOs are bound from the path and query string before the body.
var nameTags = []string{"params", "query", "json"}

// messages formats a failed tag; %[1]s is the field, %[2]s the tag parameter.
var messages = map[string]string{
	"required": "%[1]s is required",
	"min":      "%[1]s must be at least %[2]s",
	"max":      "%[1]s must be at most %[2]s",
	"oneof":    "%[1]s must be one of: %[2]s",
	"numeric":  "%[1]s must be a number",
	"slug":     "%[1]s must be lowercase letters, digits and hyphens",
}

// Validator validates request DTOs.
type Validator struct {
	v *validator.Validate
}

// ValidationError is one failed field.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationErrors lists every failed field of a request.
type ValidationErrors []ValidationError

// Error joins the field messages.
func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// New creates a Validator with the filtername and slug tags registered.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)

	_ = v.RegisterValidation("filtername", func(fl validator.FieldLevel) bool {
		return domain.IsFilterName(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range nameTags {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		switch name {
		case "":
			continue
		case "-":
			return fld.Name
		default:
			return name
		}
	}

	return fld.Name
}

// Validate checks i and returns ValidationErrors when fields fail.
func (v *Validator) Validate(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating %T: %w", i, err)
	}

	errs := make(ValidationErrors, len(fieldErrs))
	for i, e := range fieldErrs {
		errs[i] = ValidationError{
			Field:   e.Field(),
			Tag:     e.Tag(),
			Value:   fmt.Sprint(e.Value()),
			Message: message(e),
		}
	}

	return errs
}

func message(e validator.FieldError) string {
	if e.Tag() == "filtername" {
		names := make([]string, len(domain.Filters))
		for i, f := range domain.Filters {
			names[i] = f.Name
		}
		return fmt.Sprintf("%s must be one of: %s", e.Field(), strings.Join(names, " "))
	}

	if format, ok := messages[e.Tag()]; ok {
		return fmt.Sprintf(format, e.Field(), e.Param())
	}

	return fmt.Sprintf("%s failed %s validation", e.Field(), e.Tag())
}
