package utils

import (
	"reflect"
	"strings"

	apperrors "github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/errors"
	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground struct validation with the custom rules
// the scoring engine needs.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	registerCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate validates struct tags; validator errors are converted to the
// shared ValidationErrors type.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("level_kind", validateLevelKind)
	validate.RegisterValidation("answer_kind", validateAnswerKind)

	// Use json names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateLevelKind(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == string(models.LevelStandard) || value == string(models.LevelBasicFacts)
}

func validateAnswerKind(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == string(models.AnswerKindChoice) || value == string(models.AnswerKindShort)
}
