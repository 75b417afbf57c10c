package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /api/recipes/:id/like
// @Summary Like or unlike a recipe
// @Tags engagement
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} object{liked=bool}
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}
	liked, err := s.engagementService.ToggleLike(c.UserContext(), currentUser(c), id)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// ToggleSave handles POST /api/recipes/:id/save
// @Summary Save or unsave a recipe
// @Tags engagement
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} object{saved=bool}
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/save [post]
func (s *Server) ToggleSave(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}
	saved, err := s.engagementService.ToggleSave(c.UserContext(), currentUser(c), id)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"saved": saved})
}

// ToggleFollow handles POST /api/users/:id/follow
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}
	following, err := s.engagementService.ToggleFollow(c.UserContext(), currentUser(c), id)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"following": following})
}
