package server

import (
	"errors"

	"recipebox/internal/middleware"
	"recipebox/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers return nil when they see it.
var errResponseWritten = errors.New("response already written")

// parseID extracts the :id route parameter as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the JSON request body into dst, writing a 400 on failure.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// respondServiceError writes err with the status its code maps to. Internal
// failures are logged here and reach the client only as a generic message.
func (s *Server) respondServiceError(c *fiber.Ctx, err error) error {
	appErr := models.AsAppError(err)
	if appErr.Code == models.CodeInternal {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(), "method", c.Method(), "error", err)
	}
	return models.RespondWithError(c, appErr.Status(), appErr)
}

// currentUser returns the authenticated caller, or 0 for anonymous requests.
func currentUser(c *fiber.Ctx) uint {
	id, _ := middleware.CurrentUserID(c)
	return id
}
