package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"salon_crm_backend/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register adds the salon-specific tags to v and reports fields by their json name.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"date": func(fl validator.FieldLevel) bool {
			value, ok := fl.Field().Interface().(string)
			if !ok {
				return false
			}
			_, err := time.Parse("2006-01-02", value)
			return err == nil
		},
		"clock": func(fl validator.FieldLevel) bool {
			value, ok := fl.Field().Interface().(string)
			if !ok {
				return false
			}
			if _, err := time.Parse("15:04:05", value); err == nil {
				return true
			}
			_, err := time.Parse("15:04", value)
			return err == nil
		},
		"appointment_status": stringRule(models.IsValidAppointmentStatus),
		"payment_status":     stringRule(models.IsValidPaymentStatus),
		"role":               stringRule(models.IsValidRole),
		"user_status":        stringRule(models.IsValidUserStatus),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("registering %q validator: %w", tag, err)
		}
	}
	return nil
}

func stringRule(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		return ok && valid(value)
	}
}

// RegisterGin installs the tags on gin's binding engine so `binding:"..."`
// struct tags can use them.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return Register(v)
}

// Describe turns a binding error into a short client-facing message.
func Describe(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "date":
			parts = append(parts, field+" must be a date (YYYY-MM-DD)")
		case "clock":
			parts = append(parts, field+" must be a time (HH:MM or HH:MM:SS)")
		case "email":
			parts = append(parts, field+" must be a valid email")
		case "min", "gt", "max":
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
