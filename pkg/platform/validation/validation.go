// Package validation wraps go-playground/validator with the registry's custom
// tags and converts failures into CodeValidation domain errors.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	id "trustestate/pkg/domain"
	dErrors "trustestate/pkg/domain-errors"
)

// Input size limits shared by request DTOs.
const (
	MaxTitleLength      = 200
	MaxAddressLength    = 300
	MaxMessageLength    = 2000
	MaxImagesPerListing = 20
	MinPasswordLength   = 8
)

var upcPattern = regexp.MustCompile(`^UPC-[A-Z0-9]{1,4}-[A-Z0-9]{4}$`)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		mustRegister(v, "role", validateRole)
		mustRegister(v, "upc", validateUPC)
		mustRegister(v, "notblank", validateNotBlank)
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation tag %q: %v", tag, err))
	}
}

func validateRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return id.Role(value).IsValid()
}

func validateUPC(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return upcPattern.MatchString(value)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Struct validates s against its `validate` tags.
// Field errors are reported in a stable order using the JSON field names.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !asValidationErrors(err, &fieldErrs) {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid request")
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Field()+" "+message(fe))
	}
	sort.Strings(msgs)
	return dErrors.New(dErrors.CodeValidation, strings.Join(msgs, "; "))
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank", "required_if", "required_unless":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s items/characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s items/characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid4", "uuid":
		return "must be a valid id"
	case "role":
		return "must be one of: Admin, Landlord, Tenant"
	case "upc":
		return "must be a registry code like UPC-MAIN-7K2Q"
	case "eq":
		return "must be " + fe.Param()
	default:
		return fmt.Sprintf("is invalid (%s)", fe.Tag())
	}
}
