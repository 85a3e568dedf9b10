package dto

import (
	"github.com/go-playground/validator/v10"

	ierr "github.com/revlytics/revlytics/internal/errors"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and wraps failures as validation errors
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return ierr.WithError(err).
			WithHint("Request validation failed").
			Mark(ierr.ErrValidation)
	}
	return nil
}
