package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/service"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/utils"
)

type GroupHandler struct {
	groups *service.GroupService
	log    *zap.SugaredLogger
}

func NewGroupHandler(groups *service.GroupService, log *zap.SugaredLogger) *GroupHandler {
	return &GroupHandler{groups: groups, log: log}
}

func (h *GroupHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		AvatarRef   string `json:"avatar_ref"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	g, err := h.groups.Create(c.Context(), userID(c), req.Name, req.Description, req.AvatarRef)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, g)
}

func (h *GroupHandler) List(c *fiber.Ctx) error {
	gs, err := h.groups.ListForUser(c.Context(), userID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, gs)
}

func (h *GroupHandler) Get(c *fiber.Ctx) error {
	g, err := h.groups.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, g)
}

func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	if err := h.groups.Delete(c.Context(), userID(c), c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *GroupHandler) AddMember(c *fiber.Ctx) error {
	var req struct {
		MemberID string `json:"member_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	g, err := h.groups.AddMember(c.Context(), userID(c), c.Params("id"), req.MemberID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, g)
}

func (h *GroupHandler) PromoteModerator(c *fiber.Ctx) error {
	var req struct {
		MemberID string `json:"member_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	g, err := h.groups.PromoteToModerator(c.Context(), userID(c), c.Params("id"), req.MemberID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, g)
}

func (h *GroupHandler) PromoteAdmin(c *fiber.Ctx) error {
	var req struct {
		ModeratorID string `json:"moderator_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	g, err := h.groups.PromoteToAdmin(c.Context(), userID(c), c.Params("id"), req.ModeratorID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, g)
}

func (h *GroupHandler) DemoteModerator(c *fiber.Ctx) error {
	g, err := h.groups.DemoteModerator(c.Context(), userID(c), c.Params("id"), c.Params("userId"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, g)
}

func (h *GroupHandler) KickMembers(c *fiber.Ctx) error {
	var req struct {
		MemberIDs []string `json:"member_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	g, err := h.groups.KickMembers(c.Context(), userID(c), c.Params("id"), req.MemberIDs)
	if err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, g)
}

func (h *GroupHandler) Leave(c *fiber.Ctx) error {
	if err := h.groups.Leave(c.Context(), userID(c), c.Params("id")); err != nil {
		return fail(c, h.log, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"left": true})
}
