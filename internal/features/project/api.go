package project

import (
	"agir-planning/internal/config"
	"agir-planning/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ProjectApi struct {
	controller *ProjectController
	config     *config.Config
}

func NewProjectApi(controller *ProjectController, config *config.Config) *ProjectApi {
	return &ProjectApi{controller: controller, config: config}
}

func (api *ProjectApi) Setup(app *fiber.App) {
	group := app.Group("/api/projects", middleware.AuthMiddleware(api.config.SkipAuth))

	group.Post("/", api.controller.Create)
	group.Get("/", api.controller.Search)
	group.Get("/:id", api.controller.Get)
	group.Put("/:id", api.controller.Update)
	group.Delete("/:id", api.controller.Delete)
}
