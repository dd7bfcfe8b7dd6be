package server

import (
	"pawhaven/internal/models"
	"pawhaven/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateApplication handles POST /api/applications
// @Summary File an adoption application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{pet_id=int,about=string,home=string,have_pets=bool} true "Application"
// @Success 201 {object} models.Application
// @Failure 404 {object} models.ErrorResponse
// @Router /applications [post]
func (s *Server) CreateApplication(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		PetID uint `json:"pet_id"`
		service.ApplicationInput
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if req.PetID == 0 {
		return models.RespondWithError(c,
			models.NewValidationError("A pet is required"))
	}

	app, followup, err := s.appService.Create(c.UserContext(), req.PetID, userID, req.ApplicationInput)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	s.dispatch(followup)
	return c.Status(fiber.StatusCreated).JSON(app)
}

// GetMyApplications handles GET /api/applications/mine
// @Summary Applications the caller has filed
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Application
// @Router /applications/mine [get]
func (s *Server) GetMyApplications(c *fiber.Ctx) error {
	apps, err := s.appService.ListMine(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(apps)
}

// GetReceivedApplications handles GET /api/applications/received
// @Summary Applications filed against the caller's pets
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Application
// @Router /applications/received [get]
func (s *Server) GetReceivedApplications(c *fiber.Ctx) error {
	apps, err := s.appService.ListReceived(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(apps)
}

// UpdateApplicationStatus handles PATCH /api/applications/:id
// @Summary Move an application to a new status
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body object{status=string} true "New status"
// @Success 200 {object} models.Application
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /applications/{id} [patch]
func (s *Server) UpdateApplicationStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	app, followup, svcErr := s.appService.UpdateStatus(c.UserContext(), id, currentUserID(c), req.Status)
	if svcErr != nil {
		return models.RespondWithError(c, svcErr)
	}
	s.dispatch(followup)
	return c.JSON(app)
}

// DeleteApplication handles DELETE /api/applications/:id
// @Summary Withdraw or dismiss an application
// @Tags applications
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} object{ok=bool}
// @Failure 403 {object} models.ErrorResponse
// @Router /applications/{id} [delete]
func (s *Server) DeleteApplication(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	followup, svcErr := s.appService.Remove(c.UserContext(), id, currentUserID(c))
	if svcErr != nil {
		return models.RespondWithError(c, svcErr)
	}
	s.dispatch(followup)
	return c.JSON(fiber.Map{"ok": true})
}
