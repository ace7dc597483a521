package submission

import (
	"agir-planning/internal/config"
	"agir-planning/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SubmissionApi struct {
	controller *SubmissionController
	config     *config.Config
}

func NewSubmissionApi(controller *SubmissionController, config *config.Config) *SubmissionApi {
	return &SubmissionApi{controller: controller, config: config}
}

func (api *SubmissionApi) Setup(app *fiber.App) {
	group := app.Group("/api/submissions", middleware.AuthMiddleware(api.config.SkipAuth))

	group.Post("/", api.controller.Create)
	group.Get("/", api.controller.List)
	group.Get("/:id", api.controller.Get)
	group.Put("/:id", api.controller.Update)
}
