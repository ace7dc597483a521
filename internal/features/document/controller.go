package document

import (
	"io"

	"github.com/gofiber/fiber/v2"
)

type DocumentController struct {
	StorageService StorageService
}

func NewDocumentController(storageService StorageService) *DocumentController {
	return &DocumentController{StorageService: storageService}
}

// Upload godoc
// @Summary Upload a document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document"
// @Success 201 {object} StoredObject
// @Router /api/documents [post]
func (ctrl *DocumentController) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	userID, _ := c.Locals("userID").(string)
	obj, err := ctrl.StorageService.Create(c.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(obj)
}

// Download godoc
// @Summary Download a document
// @Tags documents
// @Produce octet-stream
// @Param id path string true "Object ID"
// @Success 200 {file} binary
// @Router /api/documents/{id} [get]
func (ctrl *DocumentController) Download(c *fiber.Ctx) error {
	obj, err := ctrl.StorageService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, obj.Metadata.MimeType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+obj.Metadata.OriginalName+`"`)
	return c.Send(obj.Data)
}

// Delete godoc
// @Summary Delete a document
// @Tags documents
// @Param id path string true "Object ID"
// @Success 204
// @Router /api/documents/{id} [delete]
func (ctrl *DocumentController) Delete(c *fiber.Ctx) error {
	if err := ctrl.StorageService.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
