package httpresponse

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// ApplySuccessToResponse writes the standard success envelope.
func ApplySuccessToResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// ApplyErrorToResponse logs the underlying error and writes the standard
// error envelope. The raw error is kept out of the response body.
func ApplyErrorToResponse(c *fiber.Ctx, message string, err error) error {
	if err != nil {
		log.Error(fmt.Sprintf("%s: %v", message, err))
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// ApplyBadRequestToResponse writes a 400 envelope for caller errors.
func ApplyBadRequestToResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
