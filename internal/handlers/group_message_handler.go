package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/service"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/utils"
)

type GroupMessageHandler struct {
	messages *service.GroupMessageService
	log      *zap.SugaredLogger
}

func NewGroupMessageHandler(messages *service.GroupMessageService, log *zap.SugaredLogger) *GroupMessageHandler {
	return &GroupMessageHandler{messages: messages, log: log}
}

func (h *GroupMessageHandler) Send(c *fiber.Ctx) error {
	var req struct {
		Body        string `json:"body"`
		ImageRef    string `json:"image_ref"`
		IsExclusive bool   `json:"is_exclusive"`
		Price       *int64 `json:"price"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	m, err := h.messages.Send(c.Context(), userID(c), c.Params("id"), req.Body, req.ImageRef, req.IsExclusive, req.Price)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, m)
}

func (h *GroupMessageHandler) List(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", 50))
	offset := int64(c.QueryInt("offset", 0))
	views, err := h.messages.List(c.Context(), userID(c), c.Params("id"), limit, offset)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, views)
}

func (h *GroupMessageHandler) Media(c *fiber.Ctx) error {
	msgs, err := h.messages.Media(c.Context(), userID(c), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, msgs)
}

func (h *GroupMessageHandler) Edit(c *fiber.Ctx) error {
	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	m, err := h.messages.Edit(c.Context(), userID(c), c.Params("id"), req.Body)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, m)
}

func (h *GroupMessageHandler) Delete(c *fiber.Ctx) error {
	if err := h.messages.Delete(c.Context(), userID(c), c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *GroupMessageHandler) Reply(c *fiber.Ctx) error {
	var req struct {
		Body     string `json:"body"`
		ImageRef string `json:"image_ref"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	view, err := h.messages.Reply(c.Context(), userID(c), c.Params("id"), req.Body, req.ImageRef)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, view)
}

func (h *GroupMessageHandler) React(c *fiber.Ctx) error {
	var req struct {
		Reaction string `json:"reaction"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	r, err := h.messages.React(c.Context(), userID(c), c.Params("id"), req.Reaction)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, r)
}

func (h *GroupMessageHandler) RemoveReaction(c *fiber.Ctx) error {
	if err := h.messages.RemoveReaction(c.Context(), userID(c), c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
