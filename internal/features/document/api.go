package document

import (
	"agir-planning/internal/config"
	"agir-planning/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DocumentApi struct {
	controller *DocumentController
	config     *config.Config
}

func NewDocumentApi(controller *DocumentController, config *config.Config) *DocumentApi {
	return &DocumentApi{controller: controller, config: config}
}

func (api *DocumentApi) Setup(app *fiber.App) {
	group := app.Group("/api/documents", middleware.AuthMiddleware(api.config.SkipAuth))

	group.Post("/", api.controller.Upload)
	group.Get("/:id", api.controller.Download)
	group.Delete("/:id", api.controller.Delete)
}
