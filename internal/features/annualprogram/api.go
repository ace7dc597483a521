package annualprogram

import (
	"agir-planning/internal/config"
	"agir-planning/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AnnualProgramApi struct {
	controller *AnnualProgramController
	config     *config.Config
}

func NewAnnualProgramApi(controller *AnnualProgramController, config *config.Config) *AnnualProgramApi {
	return &AnnualProgramApi{controller: controller, config: config}
}

func (api *AnnualProgramApi) Setup(app *fiber.App) {
	group := app.Group("/api/annual-programs", middleware.AuthMiddleware(api.config.SkipAuth))

	group.Post("/", api.controller.Create)
	group.Get("/", api.controller.List)
	group.Get("/:id", api.controller.Get)
	group.Put("/:id", api.controller.Update)
	group.Delete("/:id", api.controller.Delete)
}
