package nexo

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type NexoController struct {
	NexoService NexoService
}

func NewNexoController(nexoService NexoService) *NexoController {
	return &NexoController{NexoService: nexoService}
}

// InitImport godoc
// @Summary Upload one Nexo file into the pending import
// @Tags nexo
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet (xlsx or csv)"
// @Param fileType formData string true "interventionsSE | interventionsBudgetSE | rehabAqConception | rehabEgConception"
// @Success 201 {object} NexoImportLog
// @Router /api/nexo/import [post]
func (ctrl *NexoController) InitImport(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing file"})
	}
	fileType := FileType(c.FormValue("fileType"))

	f, err := header.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unreadable file"})
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unreadable file"})
	}

	userID, _ := c.Locals("userID").(string)
	log, err := ctrl.NexoService.InitImport(c.Context(), UploadedFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Type:        fileType,
		Data:        data,
	}, userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(log)
}

// StartImport godoc
// @Summary Start the import; processing continues in the background
// @Tags nexo
// @Produce json
// @Param id path string true "Import log ID"
// @Success 202 {object} map[string]interface{}
// @Router /api/nexo/import/{id}/start [post]
func (ctrl *NexoController) StartImport(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	run, err := ctrl.NexoService.StartImport(c.Context(), c.Params("id"), userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"id":     run.LogID(),
		"status": ImportStatusInProgress,
	})
}

// Search godoc
// @Summary Search import logs
// @Tags nexo
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/nexo/imports [get]
func (ctrl *NexoController) Search(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(c.Query("offset", "0"), 10, 64)

	criteria := LogCriteria{
		Status: ImportStatus(c.Query("status")),
	}
	page, err := ctrl.NexoService.SearchImports(c.Context(), criteria, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// Get godoc
// @Summary Get one import log
// @Tags nexo
// @Produce json
// @Param id path string true "Import log ID"
// @Success 200 {object} NexoImportLog
// @Router /api/nexo/import/{id} [get]
func (ctrl *NexoController) Get(c *fiber.Ctx) error {
	log, err := ctrl.NexoService.GetImport(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(log)
}

// GetFile godoc
// @Summary Download one uploaded import file
// @Tags nexo
// @Produce application/octet-stream
// @Param id path string true "Import log ID"
// @Param fileId path string true "File ID"
// @Success 200 {file} binary
// @Router /api/nexo/import/{id}/file/{fileId} [get]
func (ctrl *NexoController) GetFile(c *fiber.Ctx) error {
	blob, err := ctrl.NexoService.GetImportFile(c.Context(), c.Params("id"), c.Params("fileId"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, blob.Metadata.MimeType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=\""+blob.Metadata.OriginalName+"\"")
	return c.Send(blob.Data)
}
