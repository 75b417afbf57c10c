package server

import (
	"io"

	"recipebox/internal/media"
	"recipebox/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/uploads/images
// @Summary Upload a recipe photo
// @Description Crops to 4:3, 1:1 or 4:5 and stores JPEG, WebP and thumbnail renditions
// @Tags media
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 201 {object} media.Image
// @Failure 400 {object} models.ErrorResponse
// @Router /uploads/images [post]
func (s *Server) UploadImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}
	if fh.Size > s.media.MaxUploadBytes() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File too large"))
	}

	f, err := fh.Open()
	if err != nil {
		return s.respondServiceError(c, models.NewInternalError(err))
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(io.LimitReader(f, s.media.MaxUploadBytes()+1))
	if err != nil {
		return s.respondServiceError(c, models.NewInternalError(err))
	}

	img, err := s.media.Upload(c.UserContext(), media.UploadInput{
		UserID:      currentUser(c),
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Content:     content,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(img)
}
