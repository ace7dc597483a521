package intervention

import (
	"agir-planning/internal/config"
	"agir-planning/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type InterventionApi struct {
	controller *InterventionController
	config     *config.Config
}

func NewInterventionApi(controller *InterventionController, config *config.Config) *InterventionApi {
	return &InterventionApi{controller: controller, config: config}
}

func (api *InterventionApi) Setup(app *fiber.App) {
	group := app.Group("/api/interventions", middleware.AuthMiddleware(api.config.SkipAuth))

	group.Post("/", api.controller.Create)
	group.Get("/", api.controller.Search)
	group.Get("/:id", api.controller.Get)
	group.Put("/:id", api.controller.Update)
	group.Delete("/:id", api.controller.Delete)
}
