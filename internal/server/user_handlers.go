package server

import (
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/user/profile
// @Summary Current user's profile
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /user/profile [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.UserContext(), currentUser(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateProfile handles PUT /api/user/profile
// @Summary Update profile
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string,email=string,username=string,bio=string,image=string} true "Profile"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /user/profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		Name     string  `json:"name"`
		Email    string  `json:"email"`
		Username *string `json:"username"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:   currentUser(c),
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Bio:      req.Bio,
		Image:    req.Image,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(user)
}

// ChangePassword handles PUT /api/user/password
// @Summary Change password
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{currentPassword=string,newPassword=string} true "Passwords"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /user/password [put]
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	err := s.userService.ChangePassword(c.UserContext(), service.ChangePasswordInput{
		UserID:          currentUser(c),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// GetMyRecipes handles GET /api/user/recipes
func (s *Server) GetMyRecipes(c *fiber.Ctx) error {
	recipes, err := s.userService.OwnRecipes(c.UserContext(), currentUser(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(recipes)
}

// GetSavedRecipes handles GET /api/user/saved
func (s *Server) GetSavedRecipes(c *fiber.Ctx) error {
	recipes, err := s.userService.SavedRecipes(c.UserContext(), currentUser(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(recipes)
}

// GetMyStats handles GET /api/user/stats
func (s *Server) GetMyStats(c *fiber.Ctx) error {
	stats, err := s.userService.Stats(c.UserContext(), currentUser(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(stats)
}
