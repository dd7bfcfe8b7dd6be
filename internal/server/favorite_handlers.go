package server

import (
	"pawhaven/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFavorites handles GET /api/favorites
// @Summary The caller's favorite pets
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Pet
// @Router /favorites [get]
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	pets, err := s.favService.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(pets)
}

// ToggleFavorite handles POST /api/favorites/:petId
// @Summary Toggle a pet in the caller's favorites
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param petId path int true "Pet ID"
// @Success 200 {object} object{pet_ids=[]int,favorited=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /favorites/{petId} [post]
func (s *Server) ToggleFavorite(c *fiber.Ctx) error {
	petID, err := s.parseID(c, "petId")
	if err != nil {
		return nil
	}

	petIDs, favorited, svcErr := s.favService.Toggle(c.UserContext(), currentUserID(c), petID)
	if svcErr != nil {
		return models.RespondWithError(c, svcErr)
	}
	return c.JSON(fiber.Map{
		"pet_ids":   petIDs,
		"favorited": favorited,
	})
}
