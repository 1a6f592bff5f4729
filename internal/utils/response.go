package utils

import "github.com/gofiber/fiber/v2"

// JSONSuccess writes the standard success envelope: a status marker plus
// the payload under "data".
func JSONSuccess(c *fiber.Ctx, status int, payload interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "ok",
		"data":   payload,
	})
}

// JSONError writes the error envelope with a human-readable message.
func JSONError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": msg,
	})
}
