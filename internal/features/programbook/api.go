package programbook

import (
	"agir-planning/internal/config"
	"agir-planning/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ProgramBookApi struct {
	controller *ProgramBookController
	config     *config.Config
}

func NewProgramBookApi(controller *ProgramBookController, config *config.Config) *ProgramBookApi {
	return &ProgramBookApi{controller: controller, config: config}
}

func (api *ProgramBookApi) Setup(app *fiber.App) {
	group := app.Group("/api/program-books", middleware.AuthMiddleware(api.config.SkipAuth))

	group.Post("/", api.controller.Create)
	group.Get("/", api.controller.List)
	group.Get("/:id", api.controller.Get)
	group.Get("/:id/projects", api.controller.GetProjects)
	group.Put("/:id", api.controller.Update)
	group.Delete("/:id", api.controller.Delete)
}
