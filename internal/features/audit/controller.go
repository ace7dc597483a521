package audit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	AuditService AuditService
}

func NewAuditController(auditService AuditService) *AuditController {
	return &AuditController{AuditService: auditService}
}

// GetHistory godoc
// @Summary Change history of one record
// @Tags audit
// @Produce json
// @Param entity path string true "Entity name"
// @Param recordId path string true "Record ID"
// @Success 200 {array} AuditLog
// @Router /api/audit/{entity}/{recordId} [get]
func (ctrl *AuditController) GetHistory(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)

	history, err := ctrl.AuditService.GetHistory(c.Context(), c.Params("entity"), c.Params("recordId"), limit)
	if err != nil {
		return err
	}
	return c.JSON(history)
}
