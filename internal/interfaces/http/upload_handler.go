package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mit-motorsports/purchasing-api/internal/application/dto"
	"github.com/mit-motorsports/purchasing-api/internal/application/ports"
	"github.com/mit-motorsports/purchasing-api/internal/domain"
)

// UploadHandler receives arrival photos and hands them to the file store.
type UploadHandler struct {
	files ports.FileStore
}

// NewUploadHandler builds the upload handler.
func NewUploadHandler(files ports.FileStore) *UploadHandler {
	return &UploadHandler{files: files}
}

// Upload godoc
// @Summary      Upload an arrival photo (business only)
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "image or PDF"
// @Success      201  {object}  dto.UploadResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/uploads [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "multipart field 'file' is required"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cannot read uploaded file"})
	}
	defer f.Close()

	ref, err := h.files.Save(c.Context(), fileHeader.Filename, f, fileHeader.Size)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{Filename: ref})
}
