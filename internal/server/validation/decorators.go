package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validatable is implemented by requests with rules that struct tags cannot express.
type Validatable interface {
	Validate() error
}

// DecorateWithBodyEx parses the request body into T, validates it and passes it to next.
func DecorateWithBodyEx[T any](v *validator.Validate, next func(c *fiber.Ctx, req *T) error) fiber.Handler {
	return decorate(v, func(c *fiber.Ctx, req *T) error { return c.BodyParser(req) }, next)
}

// DecorateWithQueryEx parses the query string into T, validates it and passes it to next.
func DecorateWithQueryEx[T any](v *validator.Validate, next func(c *fiber.Ctx, req *T) error) fiber.Handler {
	return decorate(v, func(c *fiber.Ctx, req *T) error { return c.QueryParser(req) }, next)
}

func decorate[T any](
	v *validator.Validate,
	parse func(c *fiber.Ctx, req *T) error,
	next func(c *fiber.Ctx, req *T) error,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(T)
		if err := parse(c, req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("failed to parse request: %s", err))
		}

		if err := v.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if val, ok := any(req).(Validatable); ok {
			if err := val.Validate(); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		return next(c, req)
	}
}
