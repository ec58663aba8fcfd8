// Package validation validates request and service inputs using validator/v10.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	domainerrors "github.com/Fabioalbuqueque/pregacao/internal/errors"
	"github.com/Fabioalbuqueque/pregacao/internal/reference"
	"github.com/go-playground/validator/v10"
)

var translationCode = regexp.MustCompile(`^[a-z0-9]{2,16}$`)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the application's custom tags:
// "book" (a known book name or slug) and "translation" (a lowercase translation code).
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("book", func(fl validator.FieldLevel) bool {
		_, err := reference.LookupBook(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("translation", func(fl validator.FieldLevel) bool {
		return translationCode.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain validation error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	names := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
		names = append(names, e.Field())
	}

	return domainerrors.ValidationWithDetails(
		"validation failed: "+strings.Join(names, ", "),
		fieldErrors,
	)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", e.Param())
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "book":
		return "must be a known book"
	case "translation":
		return "must be a lowercase translation code"
	default:
		return "is invalid"
	}
}
