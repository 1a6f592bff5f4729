package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/service"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/utils"
)

type AssetHandler struct {
	assets *service.AssetService
	log    *zap.SugaredLogger
}

func NewAssetHandler(assets *service.AssetService, log *zap.SugaredLogger) *AssetHandler {
	return &AssetHandler{assets: assets, log: log}
}

// Upload expects multipart form files "original" and "blurred", both
// pre-rendered by the media pipeline.
func (h *AssetHandler) Upload(c *fiber.Ctx) error {
	origFile, err := c.FormFile("original")
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "missing original file")
	}
	blurFile, err := c.FormFile("blurred")
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "missing blurred file")
	}

	original, err := readFile(origFile)
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "unreadable original file")
	}
	blurred, err := readFile(blurFile)
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "unreadable blurred file")
	}

	a, err := h.assets.Upload(c.Context(), userID(c), origFile.Header.Get("Content-Type"), original, blurred)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, a)
}

func (h *AssetHandler) Delete(c *fiber.Ctx) error {
	if err := h.assets.Delete(c.Context(), userID(c), c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
