package taxonomy

import (
	"agir-planning/internal/config"
	"agir-planning/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TaxonomyApi struct {
	controller *TaxonomyController
	config     *config.Config
}

func NewTaxonomyApi(controller *TaxonomyController, config *config.Config) *TaxonomyApi {
	return &TaxonomyApi{controller: controller, config: config}
}

func (api *TaxonomyApi) Setup(app *fiber.App) {
	group := app.Group("/api/taxonomies", middleware.AuthMiddleware(api.config.SkipAuth))

	group.Get("/:group", api.controller.GetGroup)
	group.Post("/", api.controller.Upsert)
	group.Delete("/:id", api.controller.Delete)
}
