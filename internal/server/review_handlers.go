package server

import (
	"pawhaven/internal/models"
	"pawhaven/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListReviews handles GET /api/reviews
// @Summary Reviews for a pet or shelter
// @Tags reviews
// @Produce json
// @Param target_type query string true "pet or shelter"
// @Param target_id query int true "Target ID"
// @Success 200 {array} models.Review
// @Failure 400 {object} models.ErrorResponse
// @Router /reviews [get]
func (s *Server) ListReviews(c *fiber.Ctx) error {
	targetID := c.QueryInt("target_id", 0)
	if targetID <= 0 {
		return models.RespondWithError(c,
			models.NewValidationError("A review target is required"))
	}

	reviews, err := s.reviewService.List(c.UserContext(), c.Query("target_type"), uint(targetID))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(reviews)
}

// CreateReview handles POST /api/reviews
// @Summary Leave a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ReviewInput true "Review"
// @Success 201 {object} models.Review
// @Failure 400 {object} models.ErrorResponse
// @Router /reviews [post]
func (s *Server) CreateReview(c *fiber.Ctx) error {
	var req service.ReviewInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.Create(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}
