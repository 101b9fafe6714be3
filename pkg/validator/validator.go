package validator

import (
	"fmt"
	"strings"

	"go-inventory-tracker/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
	validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return model.Category(fl.Field().String()).IsValid()
	})
	validate.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
		return model.Unit(fl.Field().String()).IsValid()
	})
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range validationErrs {
			errors = append(errors, &ErrorResponse{
				FailedField: err.Field(),
				Tag:         err.Tag(),
				Value:       err.Param(),
			})
		}
	}
	return errors
}

// Message renders the first failure as a sentence suitable for API clients.
func Message(errs []*ErrorResponse) string {
	if len(errs) == 0 {
		return ""
	}
	first := errs[0]
	switch first.Tag {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", first.FailedField)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", first.FailedField, first.Value)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", first.FailedField, first.Value)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", first.FailedField)
	case "category":
		return fmt.Sprintf("%s must be one of %s", first.FailedField, strings.Join(model.CategoryNames(), ", "))
	case "unit":
		return fmt.Sprintf("%s must be one of %s", first.FailedField, strings.Join(model.UnitNames(), ", "))
	default:
		return fmt.Sprintf("%s failed on '%s'", first.FailedField, first.Tag)
	}
}
