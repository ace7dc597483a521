package annualprogram

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type AnnualProgramController struct {
	AnnualProgramService AnnualProgramService
}

func NewAnnualProgramController(annualProgramService AnnualProgramService) *AnnualProgramController {
	return &AnnualProgramController{AnnualProgramService: annualProgramService}
}

// Create godoc
// @Summary Create an annual program
// @Tags annual-programs
// @Accept json
// @Produce json
// @Success 201 {object} AnnualProgram
// @Router /api/annual-programs [post]
func (ctrl *AnnualProgramController) Create(c *fiber.Ctx) error {
	var ap AnnualProgram
	if err := c.BodyParser(&ap); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	userID, _ := c.Locals("userID").(string)
	if err := ctrl.AnnualProgramService.Create(c.Context(), &ap, userID); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ap)
}

// Get godoc
// @Summary Get an annual program
// @Tags annual-programs
// @Produce json
// @Param id path string true "Annual program ID"
// @Success 200 {object} AnnualProgram
// @Router /api/annual-programs/{id} [get]
func (ctrl *AnnualProgramController) Get(c *fiber.Ctx) error {
	ap, err := ctrl.AnnualProgramService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ap)
}

// List godoc
// @Summary List annual programs
// @Tags annual-programs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/annual-programs [get]
func (ctrl *AnnualProgramController) List(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(c.Query("offset", "0"), 10, 64)
	year, _ := strconv.Atoi(c.Query("year", "0"))

	page, err := ctrl.AnnualProgramService.List(c.Context(), c.Query("executorId"), year, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// Update godoc
// @Summary Update an annual program
// @Tags annual-programs
// @Accept json
// @Produce json
// @Param id path string true "Annual program ID"
// @Success 200 {object} AnnualProgram
// @Router /api/annual-programs/{id} [put]
func (ctrl *AnnualProgramController) Update(c *fiber.Ctx) error {
	existing, err := ctrl.AnnualProgramService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	var ap AnnualProgram
	if err := c.BodyParser(&ap); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	ap.ID = existing.ID
	ap.Audit = existing.Audit

	userID, _ := c.Locals("userID").(string)
	if err := ctrl.AnnualProgramService.Update(c.Context(), &ap, userID); err != nil {
		return err
	}
	return c.JSON(ap)
}

// Delete godoc
// @Summary Delete an annual program
// @Tags annual-programs
// @Param id path string true "Annual program ID"
// @Success 204
// @Router /api/annual-programs/{id} [delete]
func (ctrl *AnnualProgramController) Delete(c *fiber.Ctx) error {
	if err := ctrl.AnnualProgramService.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
