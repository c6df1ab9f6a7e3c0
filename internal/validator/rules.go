package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Кастомные правила валидации.

// registerCustomRules регистрирует все доменные правила.
func registerCustomRules(v *validator.Validate) error {
	return v.RegisterValidation("poll_type", validatePollType)
}

// registerGinRules добавляет доменные правила в движок gin binding,
// чтобы binding-теги DTO знали про них.
func registerGinRules() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return registerCustomRules(v)
	}
	return nil
}

// validatePollType - тип голосования из фиксированного набора.
func validatePollType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "single", "multiple", "rated_options":
		return true
	}
	return false
}
