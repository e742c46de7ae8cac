package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"foodie-backend/internal/data/entity"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their json name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("account_kind", func(fl validator.FieldLevel) bool {
		return entity.AccountKind(fl.Field().String()).Valid()
	})

	return v
}

// IsValidPhone accepts up to 15 digits with an optional leading "+" or "+1".
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidateStruct returns field problems keyed by json path, or nil.
func ValidateStruct(data any) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fields["non_field_errors"] = "Invalid request"
		return fields
	}

	for _, fe := range validationErrors {
		fields[fieldPath(fe)] = getErrorMessage(fe)
	}

	return fields
}

// fieldPath drops the root struct name: "RegisterRequest.email" -> "email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return fmt.Sprintf("Minimum length is %s", fe.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "phone":
		return "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."
	case "account_kind":
		return fmt.Sprintf("%q is not a valid choice", fe.Value())
	case "datetime":
		return fmt.Sprintf("Date has wrong format. Use %s", fe.Param())
	case "url":
		return "Enter a valid URL"
	case "latitude":
		return "Must be a valid latitude"
	case "longitude":
		return "Must be a valid longitude"
	default:
		return fmt.Sprintf("Invalid %s field", fe.Field())
	}
}
