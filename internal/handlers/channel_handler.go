package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/service"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/utils"
)

type ChannelHandler struct {
	channels *service.ChannelService
	messages *service.MessageService
	log      *zap.SugaredLogger
}

func NewChannelHandler(channels *service.ChannelService, messages *service.MessageService, log *zap.SugaredLogger) *ChannelHandler {
	return &ChannelHandler{channels: channels, messages: messages, log: log}
}

func (h *ChannelHandler) Create(c *fiber.Ctx) error {
	var req struct {
		PeerID string `json:"peer_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	ch, err := h.channels.GetOrCreate(c.Context(), userID(c), req.PeerID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, ch)
}

func (h *ChannelHandler) List(c *fiber.Ctx) error {
	chs, err := h.channels.List(c.Context(), userID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, chs)
}

func (h *ChannelHandler) Delete(c *fiber.Ctx) error {
	if err := h.channels.Delete(c.Context(), userID(c), c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *ChannelHandler) Messages(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", 50))
	var before time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid before cursor")
		}
		before = t
	}
	msgs, err := h.messages.List(c.Context(), userID(c), c.Params("id"), limit, before)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, msgs)
}
