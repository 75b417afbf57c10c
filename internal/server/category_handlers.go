package server

import (
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.List(c.UserContext())
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(categories)
}

// CreateCategory handles POST /api/categories (admin only)
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string,description=string,icon=string,order=int} true "Category"
// @Success 201 {object} models.Category
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /categories [post]
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
		Icon        *string `json:"icon"`
		Order       int     `json:"order"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	category, err := s.categoryService.Create(c.UserContext(), service.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Order:       req.Order,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
