package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// FieldError is the first failed rule of a struct, keyed by its json name.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

func (e *FieldError) Error() string {
	switch e.Rule {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", e.Field)
	case "max":
		return fmt.Sprintf("%s must be at most %s", e.Field, e.Param)
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Field, e.Param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.Field, e.Param)
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", e.Field, e.Param)
	default:
		return fmt.Sprintf("%s is invalid", e.Field)
	}
}

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return Required(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Struct runs the validate tags of v and returns a *FieldError for the first failure.
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()}
	}
	return err
}

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}
