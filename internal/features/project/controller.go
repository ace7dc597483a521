package project

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type ProjectController struct {
	ProjectService ProjectService
}

func NewProjectController(projectService ProjectService) *ProjectController {
	return &ProjectController{ProjectService: projectService}
}

// Create godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Success 201 {object} Project
// @Router /api/projects [post]
func (ctrl *ProjectController) Create(c *fiber.Ctx) error {
	var prj Project
	if err := c.BodyParser(&prj); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	userID, _ := c.Locals("userID").(string)
	if err := ctrl.ProjectService.Create(c.Context(), &prj, userID); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(prj)
}

// Get godoc
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} Project
// @Router /api/projects/{id} [get]
func (ctrl *ProjectController) Get(c *fiber.Ctx) error {
	prj, err := ctrl.ProjectService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(prj)
}

// Search godoc
// @Summary Search projects
// @Tags projects
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/projects [get]
func (ctrl *ProjectController) Search(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(c.Query("offset", "0"), 10, 64)

	criteria := Criteria{
		Status:         c.Query("status"),
		ProgramBookID:  c.Query("programBookId"),
		ExecutorID:     c.Query("executorId"),
		InterventionID: c.Query("interventionId"),
		OrderBy:        c.Query("orderBy"),
	}

	page, err := ctrl.ProjectService.Search(c.Context(), criteria, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// Update godoc
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} Project
// @Router /api/projects/{id} [put]
func (ctrl *ProjectController) Update(c *fiber.Ctx) error {
	existing, err := ctrl.ProjectService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	var prj Project
	if err := c.BodyParser(&prj); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	prj.ID = existing.ID
	prj.Audit = existing.Audit

	userID, _ := c.Locals("userID").(string)
	if err := ctrl.ProjectService.Update(c.Context(), &prj, userID); err != nil {
		return err
	}
	return c.JSON(prj)
}

// Delete godoc
// @Summary Delete a project
// @Tags projects
// @Param id path string true "Project ID"
// @Success 204
// @Router /api/projects/{id} [delete]
func (ctrl *ProjectController) Delete(c *fiber.Ctx) error {
	if err := ctrl.ProjectService.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
