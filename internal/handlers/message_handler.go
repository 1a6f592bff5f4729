package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/service"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/utils"
)

type MessageHandler struct {
	messages *service.MessageService
	log      *zap.SugaredLogger
}

func NewMessageHandler(messages *service.MessageService, log *zap.SugaredLogger) *MessageHandler {
	return &MessageHandler{messages: messages, log: log}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req struct {
		ReceiverID string `json:"receiver_id"`
		service.SendMessageInput
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	view, err := h.messages.Send(c.Context(), userID(c), req.ReceiverID, req.SendMessageInput)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, view)
}

func (h *MessageHandler) Edit(c *fiber.Ctx) error {
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

func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	if err := h.messages.Delete(c.Context(), userID(c), c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *MessageHandler) BulkDelete(c *fiber.Ctx) error {
	var req struct {
		MessageIDs []string `json:"message_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	n, err := h.messages.BulkDelete(c.Context(), userID(c), req.MessageIDs)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": n})
}

func (h *MessageHandler) Forward(c *fiber.Ctx) error {
	var req struct {
		ReceiverID string `json:"receiver_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	view, err := h.messages.Forward(c.Context(), userID(c), c.Params("id"), req.ReceiverID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, view)
}

func (h *MessageHandler) Reply(c *fiber.Ctx) error {
	var req struct {
		ReceiverID string `json:"receiver_id"`
		Body       string `json:"body"`
		ImageRef   string `json:"image_ref"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	view, err := h.messages.Reply(c.Context(), userID(c), c.Params("id"), req.ReceiverID, req.Body, req.ImageRef)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, view)
}

func (h *MessageHandler) React(c *fiber.Ctx) error {
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

func (h *MessageHandler) RemoveReaction(c *fiber.Ctx) error {
	if err := h.messages.RemoveReaction(c.Context(), userID(c), c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *MessageHandler) MarkSeen(c *fiber.Ctx) error {
	m, err := h.messages.MarkSeen(c.Context(), userID(c), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, m)
}
