package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"ai-shopsearch-be/internal/apperror"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and wraps failures so the
// error handler answers 400.
func ValidateRequest(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", apperror.ErrValidation, err.Error())
	}
	return nil
}
