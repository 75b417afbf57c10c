package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetAds handles GET /api/ads?location=
// @Summary Ad spaces for a location
// @Description Active spaces at the location in display order, each with its currently servable ad or null
// @Tags ads
// @Produce json
// @Param location query string false "Ad location, e.g. inline-banner"
// @Success 200 {array} models.AdSpace
// @Failure 500 {object} models.ErrorResponse
// @Router /ads [get]
func (s *Server) GetAds(c *fiber.Ctx) error {
	spaces, err := s.adService.ListSpaces(c.UserContext(), c.Query("location"))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(spaces)
}

// TrackAd handles POST /api/ads/:id/track
// @Summary Record an impression or click
// @Tags ads
// @Accept json
// @Produce json
// @Param id path int true "Ad ID"
// @Param request body object{type=string} true "impression or click"
// @Success 200 {object} object{success=bool,type=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /ads/{id}/track [post]
func (s *Server) TrackAd(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}
	var req struct {
		Type string `json:"type"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	eventType := req.Type
	if err := s.adService.Track(c.UserContext(), id, eventType); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "type": eventType})
}
