package service

import (
	"context"
	"strings"

	"pawhaven/internal/models"
	"pawhaven/internal/repository"
)

// ReviewInput carries the fields of a new review.
type ReviewInput struct {
	TargetType string `json:"target_type"`
	TargetID   uint   `json:"target_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// ReviewService owns reviews against pets and shelters.
type ReviewService struct {
	reviews repository.ReviewRepository
}

// NewReviewService returns a new ReviewService.
func NewReviewService(reviews repository.ReviewRepository) *ReviewService {
	return &ReviewService{reviews: reviews}
}

// List returns the reviews for one target, newest first.
func (s *ReviewService) List(ctx context.Context, targetType string, targetID uint) ([]models.Review, error) {
	if !models.ValidReviewTarget(targetType) {
		return nil, models.NewValidationError("Unknown review target type")
	}
	return s.reviews.ListByTarget(ctx, targetType, targetID)
}

// Create stores a review. Any authenticated user may review any target,
// the rating is clamped to the 1..5 scale.
func (s *ReviewService) Create(ctx context.Context, authorID uint, in ReviewInput) (*models.Review, error) {
	if !models.ValidReviewTarget(in.TargetType) {
		return nil, models.NewValidationError("Unknown review target type")
	}
	if in.TargetID == 0 {
		return nil, models.NewValidationError("A review target is required")
	}
	in.Comment = strings.TrimSpace(in.Comment)
	if in.Comment == "" {
		return nil, models.NewValidationError("Comment is required")
	}

	review := &models.Review{
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		AuthorID:   authorID,
		Rating:     models.ClampRating(in.Rating),
		Comment:    in.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}
