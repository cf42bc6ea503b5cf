package http

import "github.com/go-playground/validator/v10"

// CustomValidator adapts a validator to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// Validator is the echo validator sharing the handlers' rules.
func (r *Routers) Validator() *CustomValidator {
	return NewCustomValidator(r.validate)
}
