package server

import (
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/recipes/:id/comments
// @Summary List comments
// @Description Top-level comments newest first, each with its replies oldest first
// @Tags comments
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}
	comments, err := s.commentService.List(c.UserContext(), id)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/recipes/:id/comments
// @Summary Comment on a recipe
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param request body object{content=string,parentId=int} true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}
	var req struct {
		Content  string `json:"content"`
		ParentID *uint  `json:"parentId"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.Create(c.UserContext(), service.CreateCommentInput{
		UserID:   currentUser(c),
		RecipeID: id,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
