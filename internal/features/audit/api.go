package audit

import (
	"agir-planning/internal/config"
	"agir-planning/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	config     *config.Config
}

func NewAuditApi(controller *AuditController, config *config.Config) *AuditApi {
	return &AuditApi{controller: controller, config: config}
}

func (api *AuditApi) Setup(app *fiber.App) {
	group := app.Group("/api/audit", middleware.AuthMiddleware(api.config.SkipAuth))

	group.Get("/:entity/:recordId", api.controller.GetHistory)
}
