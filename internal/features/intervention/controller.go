package intervention

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type InterventionController struct {
	InterventionService InterventionService
}

func NewInterventionController(interventionService InterventionService) *InterventionController {
	return &InterventionController{InterventionService: interventionService}
}

// Create godoc
// @Summary Create an intervention
// @Tags interventions
// @Accept json
// @Produce json
// @Success 201 {object} Intervention
// @Router /api/interventions [post]
func (ctrl *InterventionController) Create(c *fiber.Ctx) error {
	var itv Intervention
	if err := c.BodyParser(&itv); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	userID, _ := c.Locals("userID").(string)
	if err := ctrl.InterventionService.Create(c.Context(), &itv, userID); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(itv)
}

// Get godoc
// @Summary Get an intervention
// @Tags interventions
// @Produce json
// @Param id path string true "Intervention ID"
// @Success 200 {object} Intervention
// @Router /api/interventions/{id} [get]
func (ctrl *InterventionController) Get(c *fiber.Ctx) error {
	itv, err := ctrl.InterventionService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(itv)
}

// Search godoc
// @Summary Search interventions
// @Tags interventions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/interventions [get]
func (ctrl *InterventionController) Search(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(c.Query("offset", "0"), 10, 64)

	criteria := Criteria{
		Status:     c.Query("status"),
		ProgramID:  c.Query("programId"),
		ExecutorID: c.Query("executorId"),
		BoroughID:  c.Query("boroughId"),
		OrderBy:    c.Query("orderBy"),
	}

	page, err := ctrl.InterventionService.Search(c.Context(), criteria, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// Update godoc
// @Summary Update an intervention
// @Tags interventions
// @Accept json
// @Produce json
// @Param id path string true "Intervention ID"
// @Success 200 {object} Intervention
// @Router /api/interventions/{id} [put]
func (ctrl *InterventionController) Update(c *fiber.Ctx) error {
	existing, err := ctrl.InterventionService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	var itv Intervention
	if err := c.BodyParser(&itv); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	itv.ID = existing.ID
	itv.Audit = existing.Audit

	userID, _ := c.Locals("userID").(string)
	if err := ctrl.InterventionService.Update(c.Context(), &itv, userID); err != nil {
		return err
	}
	return c.JSON(itv)
}

// Delete godoc
// @Summary Delete an intervention
// @Tags interventions
// @Param id path string true "Intervention ID"
// @Success 204
// @Router /api/interventions/{id} [delete]
func (ctrl *InterventionController) Delete(c *fiber.Ctx) error {
	if err := ctrl.InterventionService.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
