package server

import (
	"pawhaven/internal/models"
	"pawhaven/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetThreads handles GET /api/messages
// @Summary List the caller's message threads
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.ThreadView
// @Router /messages [get]
func (s *Server) GetThreads(c *fiber.Ctx) error {
	threads, err := s.msgService.ListThreads(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(threads)
}

// GetThread handles GET /api/messages/:id
// @Summary Read one thread
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Thread ID"
// @Success 200 {object} service.ThreadView
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id} [get]
func (s *Server) GetThread(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	thread, svcErr := s.msgService.GetThread(c.UserContext(), id, currentUserID(c))
	if svcErr != nil {
		return models.RespondWithError(c, svcErr)
	}
	return c.JSON(thread)
}

// SendMessage handles POST /api/messages
// @Summary Send a message
// @Description Sends into an existing thread by thread_id, or resolves/creates the thread for to_user_id (+ optional pet_id)
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.SendInput true "Message"
// @Success 201 {object} service.MessageView
// @Failure 404 {object} models.ErrorResponse
// @Router /messages [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req service.SendInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	msg, followup, err := s.msgService.Send(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	s.dispatch(followup)
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// StartThread handles POST /api/messages/start
// @Summary Open (or reuse) a thread without sending
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{to_user_id=int,pet_id=int} true "Counterparty"
// @Success 200 {object} service.ThreadView
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/start [post]
func (s *Server) StartThread(c *fiber.Ctx) error {
	var req struct {
		ToUserID uint  `json:"to_user_id"`
		PetID    *uint `json:"pet_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	thread, err := s.msgService.StartThread(c.UserContext(), currentUserID(c), req.ToUserID, req.PetID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(thread)
}

// DeleteMessageForMe handles PATCH /api/messages/:id/:messageId
// @Summary Hide a message from the caller only
// @Tags messages
// @Security BearerAuth
// @Param id path int true "Thread ID"
// @Param messageId path int true "Message ID"
// @Success 200 {object} object{ok=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id}/{messageId} [patch]
func (s *Server) DeleteMessageForMe(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	messageID, err := s.parseID(c, "messageId")
	if err != nil {
		return nil
	}

	if err := s.msgService.DeleteForMe(c.UserContext(), threadID, messageID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
