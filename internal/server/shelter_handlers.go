package server

import (
	"pawhaven/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetShelter handles GET /api/shelters/:id
// @Summary Public shelter profile with its listings
// @Tags shelters
// @Produce json
// @Param id path int true "Shelter ID"
// @Success 200 {object} service.ShelterProfile
// @Failure 404 {object} models.ErrorResponse
// @Router /shelters/{id} [get]
func (s *Server) GetShelter(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, svcErr := s.shelterService.Get(c.UserContext(), id)
	if svcErr != nil {
		return models.RespondWithError(c, svcErr)
	}
	return c.JSON(profile)
}
