package nexo

import (
	"agir-planning/internal/config"
	"agir-planning/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NexoApi struct {
	controller *NexoController
	hub        *Hub
	config     *config.Config
}

func NewNexoApi(controller *NexoController, hub *Hub, config *config.Config) *NexoApi {
	return &NexoApi{controller: controller, hub: hub, config: config}
}

func (api *NexoApi) Setup(app *fiber.App) {
	group := app.Group("/api/nexo", middleware.AuthMiddleware(api.config.SkipAuth))

	group.Post("/import", api.controller.InitImport)
	group.Post("/import/:id/start", api.controller.StartImport)
	group.Get("/imports", api.controller.Search)
	group.Get("/import/:id", api.controller.Get)
	group.Get("/import/:id/file/:fileId", api.controller.GetFile)

	group.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	group.Get("/ws", websocket.New(api.hub.Handle))
}
