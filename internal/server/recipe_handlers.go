package server

import (
	"strings"

	"recipebox/internal/repository"
	"recipebox/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// recipeFilter reads the list query string. Unknown or malformed values fall
// back to the defaults rather than failing the request.
func recipeFilter(c *fiber.Ctx) repository.RecipeFilter {
	f := repository.RecipeFilter{
		Page:         c.QueryInt("page", 1),
		Limit:        c.QueryInt("limit", repository.DefaultPageSize),
		CategorySlug: strings.TrimSpace(c.Query("category")),
		MealType:     strings.TrimSpace(c.Query("mealType")),
		Search:       strings.TrimSpace(c.Query("search")),
		Featured:     c.QueryBool("featured", false),
		Slug:         strings.TrimSpace(c.Query("slug")),
	}
	if uid := c.QueryInt("userId", 0); uid > 0 {
		f.UserID = uint(uid)
	}
	return f
}

// GetRecipes handles GET /api/recipes
// @Summary List recipes
// @Description Paginated published recipes, newest first. A slug query also matches drafts.
// @Tags recipes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(12)
// @Param category query string false "Category slug"
// @Param mealType query string false "Meal type"
// @Param search query string false "Search title, description and cuisine"
// @Param featured query bool false "Only featured recipes"
// @Param userId query int false "Owner ID"
// @Param slug query string false "Exact slug"
// @Success 200 {object} models.RecipePage
// @Router /recipes [get]
func (s *Server) GetRecipes(c *fiber.Ctx) error {
	page, err := s.recipeService.List(c.UserContext(), recipeFilter(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetRecipe handles GET /api/recipes/:id. Every call counts as a view.
// @Summary Get recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.RecipeDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [get]
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}
	detail, err := s.recipeService.Get(c.UserContext(), id)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(detail)
}

// CreateRecipe handles POST /api/recipes
// @Summary Create recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validation.RecipeInput true "Recipe"
// @Success 201 {object} object{message=string,recipe=models.Recipe}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /recipes [post]
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	var req validation.RecipeInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	recipe, err := s.recipeService.Create(c.UserContext(), currentUser(c), req)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Recipe created successfully",
		"recipe":  recipe,
	})
}

// UpdateRecipe handles PATCH /api/recipes/:id
// @Summary Update recipe
// @Description Partial update; only supplied fields change. Owner only.
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param request body validation.RecipeInput true "Changed fields"
// @Success 200 {object} models.Recipe
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [patch]
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}
	var req validation.RecipeInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	recipe, err := s.recipeService.Update(c.UserContext(), currentUser(c), id, req)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(recipe)
}

// DeleteRecipe handles DELETE /api/recipes/:id
// @Summary Delete recipe
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [delete]
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}
	if err := s.recipeService.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Recipe deleted successfully"})
}
