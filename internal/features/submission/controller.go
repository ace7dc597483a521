package submission

import (
	"github.com/gofiber/fiber/v2"
)

type SubmissionController struct {
	SubmissionService SubmissionService
}

func NewSubmissionController(submissionService SubmissionService) *SubmissionController {
	return &SubmissionController{SubmissionService: submissionService}
}

// Create godoc
// @Summary Create a submission
// @Tags submissions
// @Accept json
// @Produce json
// @Success 201 {object} Submission
// @Router /api/submissions [post]
func (ctrl *SubmissionController) Create(c *fiber.Ctx) error {
	var sub Submission
	if err := c.BodyParser(&sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	userID, _ := c.Locals("userID").(string)
	if err := ctrl.SubmissionService.Create(c.Context(), &sub, userID); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// Get godoc
// @Summary Get a submission
// @Tags submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} Submission
// @Router /api/submissions/{id} [get]
func (ctrl *SubmissionController) Get(c *fiber.Ctx) error {
	sub, err := ctrl.SubmissionService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(sub)
}

// List godoc
// @Summary List submissions of a program book
// @Tags submissions
// @Produce json
// @Success 200 {array} Submission
// @Router /api/submissions [get]
func (ctrl *SubmissionController) List(c *fiber.Ctx) error {
	items, err := ctrl.SubmissionService.ListByProgramBook(c.Context(), c.Query("programBookId"))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// Update godoc
// @Summary Update a submission
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} Submission
// @Router /api/submissions/{id} [put]
func (ctrl *SubmissionController) Update(c *fiber.Ctx) error {
	existing, err := ctrl.SubmissionService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	var sub Submission
	if err := c.BodyParser(&sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	sub.ID = existing.ID
	sub.Audit = existing.Audit

	userID, _ := c.Locals("userID").(string)
	if err := ctrl.SubmissionService.Update(c.Context(), &sub, userID); err != nil {
		return err
	}
	return c.JSON(sub)
}
