package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/AlibekovAA/tada/internal/common/errors"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*[a-zA-Z0-9]$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
	return v
}

// Struct runs the `validate` tags of v. The first failing field is
// reported as a VALIDATION_FAILED domain error.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return commonerrors.ErrValidation.WithMessage(describe(verrs[0])).WithCause(err)
	}
	return commonerrors.ErrValidation.WithCause(err)
}

// Var checks a single value against a tag expression.
func Var(value any, field, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return commonerrors.ErrValidation.WithMessage(describeTag(field, fe.Tag(), fe.Param())).WithCause(err)
		}
		return commonerrors.ErrValidation.WithCause(err)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	return describeTag(fe.Field(), fe.Tag(), fe.Param())
}

func describeTag(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "username":
		return fmt.Sprintf("%s may contain only letters, digits and . _ -", field)
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, param)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
