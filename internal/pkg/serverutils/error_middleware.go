package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

// ErrorHandlerMiddleware turns errors returned by handlers into the standard
// envelope. Unknown errors become a 500 without leaking details.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := classify(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

func classify(err error) (int, string) {
	var fiberErr *fiber.Error
	var validationErr *ValidationError

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Error()
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, ErrBadRequest):
		return fiber.StatusBadRequest, err.Error()
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}
