package service

import (
	"context"

	"pawhaven/internal/models"
	"pawhaven/internal/repository"
)

// ShelterProfile is a shelter's public page: profile fields and its
// current listings.
type ShelterProfile struct {
	Shelter models.PublicUser `json:"shelter"`
	Pets    []models.Pet      `json:"pets"`
}

// ShelterService serves public shelter profiles.
type ShelterService struct {
	users repository.UserRepository
	pets  repository.PetRepository
}

// NewShelterService returns a new ShelterService.
func NewShelterService(users repository.UserRepository, pets repository.PetRepository) *ShelterService {
	return &ShelterService{users: users, pets: pets}
}

// Get returns the public profile for a shelter account. Non-shelter
// accounts read as absent.
func (s *ShelterService) Get(ctx context.Context, shelterID uint) (*ShelterProfile, error) {
	user, err := s.users.GetByID(ctx, shelterID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleShelter {
		return nil, models.NewNotFoundError("Shelter")
	}

	pets, _, err := s.pets.List(ctx, repository.PetFilter{ShelterID: shelterID, Limit: 100})
	if err != nil {
		return nil, err
	}
	return &ShelterProfile{Shelter: user.Public(), Pets: pets}, nil
}
