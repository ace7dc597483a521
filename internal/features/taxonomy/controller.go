package taxonomy

import (
	"github.com/gofiber/fiber/v2"
)

type TaxonomyController struct {
	TaxonomyService TaxonomyService
}

func NewTaxonomyController(taxonomyService TaxonomyService) *TaxonomyController {
	return &TaxonomyController{TaxonomyService: taxonomyService}
}

// GetGroup godoc
// @Summary Get taxonomy group
// @Tags taxonomies
// @Produce json
// @Param group path string true "Taxonomy group"
// @Success 200 {array} Taxonomy
// @Router /api/taxonomies/{group} [get]
func (ctrl *TaxonomyController) GetGroup(c *fiber.Ctx) error {
	items, err := ctrl.TaxonomyService.GetGroup(c.Context(), c.Params("group"))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// Upsert godoc
// @Summary Create or update a taxonomy code
// @Tags taxonomies
// @Accept json
// @Produce json
// @Success 200 {object} Taxonomy
// @Router /api/taxonomies [post]
func (ctrl *TaxonomyController) Upsert(c *fiber.Ctx) error {
	var tax Taxonomy
	if err := c.BodyParser(&tax); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := ctrl.TaxonomyService.Upsert(c.Context(), &tax); err != nil {
		return err
	}
	return c.JSON(tax)
}

// Delete godoc
// @Summary Delete a taxonomy code
// @Tags taxonomies
// @Param id path string true "Taxonomy ID"
// @Success 204
// @Router /api/taxonomies/{id} [delete]
func (ctrl *TaxonomyController) Delete(c *fiber.Ctx) error {
	if err := ctrl.TaxonomyService.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
