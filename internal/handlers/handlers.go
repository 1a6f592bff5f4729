package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/apperr"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/utils"
)

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// fail maps a service error onto the HTTP taxonomy. Internal errors are
// logged and masked.
func fail(c *fiber.Ctx, log *zap.SugaredLogger, err error) error {
	status := apperr.Status(err)
	if status == fiber.StatusInternalServerError {
		log.Errorw("request failed", "path", c.Path(), "err", err)
		return utils.JSONError(c, status, "internal error")
	}
	return utils.JSONError(c, status, err.Error())
}
