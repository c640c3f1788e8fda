// FILE: internal/pkg/validation/validator.go
// Shared go-playground validator with the tenant-specific tags:
//   slug        lower-case a-z, 0-9 and single hyphens
//   hexrgb      #RRGGBB
//   featurekey  member of the feature catalog
//   notblank    not empty after trimming whitespace
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"schoolhub-be/internal/constant"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	slugPattern   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	hexRGBPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

	once     sync.Once
	instance *validator.Validate
)

func IsSlug(s string) bool   { return slugPattern.MatchString(s) }
func IsHexRGB(s string) bool { return hexRGBPattern.MatchString(s) }

// Validator returns the process-wide validator instance.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return IsSlug(fl.Field().String())
		})
		_ = v.RegisterValidation("hexrgb", func(fl validator.FieldLevel) bool {
			return IsHexRGB(fl.Field().String())
		})
		_ = v.RegisterValidation("featurekey", func(fl validator.FieldLevel) bool {
			return constant.FeatureKey(fl.Field().String()).IsValid()
		})
		instance = v
	})
	return instance
}

func Struct(s interface{}) error {
	return Validator().Struct(s)
}

// Fields flattens validator errors into field -> message.
// Errors that are not validation errors come back as nil.
func Fields(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email address"
	case "slug":
		return "must contain only lower-case letters, digits and hyphens"
	case "hexrgb":
		return "must be a color in #RRGGBB form"
	case "featurekey":
		return "is not a known feature"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
