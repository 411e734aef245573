package response

import "github.com/gofiber/fiber/v2"

// Envelope is the body of every workflow response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func OK(c *fiber.Ctx, message string, data any) error {
	return Send(c, fiber.StatusOK, true, message, data)
}

func Created(c *fiber.Ctx, message string, data any) error {
	return Send(c, fiber.StatusCreated, true, message, data)
}

// Send writes an envelope. success=false with a 2xx status reports an expected
// negative outcome, e.g. an aborted merge.
func Send(c *fiber.Ctx, status int, success bool, message string, data any) error {
	return c.Status(status).JSON(Envelope{
		Success: success,
		Message: message,
		Data:    data,
	})
}
