package serverutils

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"ai-shopsearch-be/internal/apperror"
)

// ErrorHandlerMiddleware turns errors bubbling out of handlers into the
// JSON error envelope. Internal errors keep their detail out of the body.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		code := apperror.StatusCode(err)
		message := err.Error()
		if code == http.StatusInternalServerError {
			message = "internal server error"
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
