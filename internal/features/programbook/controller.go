package programbook

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type ProgramBookController struct {
	ProgramBookService ProgramBookService
}

func NewProgramBookController(programBookService ProgramBookService) *ProgramBookController {
	return &ProgramBookController{ProgramBookService: programBookService}
}

// Create godoc
// @Summary Create a program book
// @Tags program-books
// @Accept json
// @Produce json
// @Success 201 {object} ProgramBook
// @Router /api/program-books [post]
func (ctrl *ProgramBookController) Create(c *fiber.Ctx) error {
	var pb ProgramBook
	if err := c.BodyParser(&pb); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	userID, _ := c.Locals("userID").(string)
	if err := ctrl.ProgramBookService.Create(c.Context(), &pb, userID); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(pb)
}

// Get godoc
// @Summary Get a program book
// @Tags program-books
// @Produce json
// @Param id path string true "Program book ID"
// @Success 200 {object} ProgramBook
// @Router /api/program-books/{id} [get]
func (ctrl *ProgramBookController) Get(c *fiber.Ctx) error {
	pb, err := ctrl.ProgramBookService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(pb)
}

// List godoc
// @Summary List program books of an annual program
// @Tags program-books
// @Produce json
// @Success 200 {array} ProgramBook
// @Router /api/program-books [get]
func (ctrl *ProgramBookController) List(c *fiber.Ctx) error {
	items, err := ctrl.ProgramBookService.ListByAnnualProgram(c.Context(), c.Query("annualProgramId"))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// GetProjects godoc
// @Summary List projects inside a program book
// @Tags program-books
// @Produce json
// @Param id path string true "Program book ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/program-books/{id}/projects [get]
func (ctrl *ProgramBookController) GetProjects(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(c.Query("offset", "0"), 10, 64)

	page, err := ctrl.ProgramBookService.GetProjects(c.Context(), c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// Update godoc
// @Summary Update a program book
// @Tags program-books
// @Accept json
// @Produce json
// @Param id path string true "Program book ID"
// @Success 200 {object} ProgramBook
// @Router /api/program-books/{id} [put]
func (ctrl *ProgramBookController) Update(c *fiber.Ctx) error {
	existing, err := ctrl.ProgramBookService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	var pb ProgramBook
	if err := c.BodyParser(&pb); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	pb.ID = existing.ID
	pb.Audit = existing.Audit

	userID, _ := c.Locals("userID").(string)
	if err := ctrl.ProgramBookService.Update(c.Context(), &pb, userID); err != nil {
		return err
	}
	return c.JSON(pb)
}

// Delete godoc
// @Summary Delete a program book
// @Tags program-books
// @Param id path string true "Program book ID"
// @Success 204
// @Router /api/program-books/{id} [delete]
func (ctrl *ProgramBookController) Delete(c *fiber.Ctx) error {
	if err := ctrl.ProgramBookService.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
