package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with the domain tags registered:
// input_kind, suggestion_type, owner_type
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("input_kind", func(fl validator.FieldLevel) bool {
		return entities.InputKind(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("suggestion_type", func(fl validator.FieldLevel) bool {
		return entities.SuggestionType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("owner_type", func(fl validator.FieldLevel) bool {
		return entities.OwnerType(fl.Field().String()).IsValid()
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
