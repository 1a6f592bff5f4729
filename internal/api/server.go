package api

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/config"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/handlers"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/middleware"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/service"
	"github.com/swiftsendllc/swiftsend-service-sub000/internal/ws"
)

// Deps collects everything the HTTP surface needs.
type Deps struct {
	Cfg           *config.Config
	Channels      *service.ChannelService
	Messages      *service.MessageService
	Groups        *service.GroupService
	GroupMessages *service.GroupMessageService
	Assets        *service.AssetService
	WS            *ws.Server
	Log           *zap.SugaredLogger
}

// NewServer wires the fiber app: REST under /v1 and the websocket upgrade
// at /v1/ws.
func NewServer(d Deps) *fiber.App {
	app := fiber.New()
	app.Use(fiberlogger.New())

	api := app.Group("/v1")
	api.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	api.Use(middleware.RequireUser(d.Cfg.App.JWTSecret))

	api.Get("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/ws", websocket.New(d.WS.HandleWS))

	ch := handlers.NewChannelHandler(d.Channels, d.Messages, d.Log)
	api.Post("/channels", ch.Create)
	api.Get("/channels", ch.List)
	api.Delete("/channels/:id", ch.Delete)
	api.Get("/channels/:id/messages", ch.Messages)

	msg := handlers.NewMessageHandler(d.Messages, d.Log)
	api.Post("/messages", msg.Send)
	api.Patch("/messages/:id", msg.Edit)
	api.Delete("/messages/:id", msg.Delete)
	api.Post("/messages/bulk-delete", msg.BulkDelete)
	api.Post("/messages/:id/forward", msg.Forward)
	api.Post("/messages/:id/reply", msg.Reply)
	api.Post("/messages/:id/reactions", msg.React)
	api.Post("/messages/:id/seen", msg.MarkSeen)
	api.Delete("/reactions/:id", msg.RemoveReaction)

	grp := handlers.NewGroupHandler(d.Groups, d.Log)
	api.Post("/groups", grp.Create)
	api.Get("/groups", grp.List)
	api.Get("/groups/:id", grp.Get)
	api.Delete("/groups/:id", grp.Delete)
	api.Post("/groups/:id/members", grp.AddMember)
	api.Delete("/groups/:id/members", grp.KickMembers)
	api.Post("/groups/:id/moderators", grp.PromoteModerator)
	api.Delete("/groups/:id/moderators/:userId", grp.DemoteModerator)
	api.Post("/groups/:id/admin", grp.PromoteAdmin)
	api.Post("/groups/:id/leave", grp.Leave)

	ast := handlers.NewAssetHandler(d.Assets, d.Log)
	api.Post("/assets", ast.Upload)
	api.Delete("/assets/:id", ast.Delete)

	gm := handlers.NewGroupMessageHandler(d.GroupMessages, d.Log)
	api.Post("/groups/:id/messages", gm.Send)
	api.Get("/groups/:id/messages", gm.List)
	api.Get("/groups/:id/media", gm.Media)
	api.Patch("/group-messages/:id", gm.Edit)
	api.Delete("/group-messages/:id", gm.Delete)
	api.Post("/group-messages/:id/reply", gm.Reply)
	api.Post("/group-messages/:id/reactions", gm.React)
	api.Delete("/group-reactions/:id", gm.RemoveReaction)

	return app
}
