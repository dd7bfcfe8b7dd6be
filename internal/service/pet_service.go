package service

import (
	"context"
	"strings"

	"pawhaven/internal/models"
	"pawhaven/internal/repository"
)

// PetInput carries the mutable fields of a pet listing.
type PetInput struct {
	Name           string   `json:"name"`
	Species        string   `json:"species"`
	Age            string   `json:"age"`
	Size           string   `json:"size"`
	Breed          string   `json:"breed"`
	Color          string   `json:"color"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	MedicalHistory string   `json:"medical_history"`
	Photos         []string `json:"photos"`
}

// PetPage is a paginated listing result.
type PetPage struct {
	Items      []models.Pet `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
}

// PetService owns pet listings.
type PetService struct {
	pets repository.PetRepository
}

// NewPetService returns a new PetService.
func NewPetService(pets repository.PetRepository) *PetService {
	return &PetService{pets: pets}
}

// List runs a filtered, paginated search over listings.
func (s *PetService) List(ctx context.Context, filter repository.PetFilter) (*PetPage, error) {
	items, total, err := s.pets.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 12
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &PetPage{Items: items, Total: total, Page: page, TotalPages: totalPages}, nil
}

// Get returns one listing with its shelter preloaded.
func (s *PetService) Get(ctx context.Context, id uint) (*models.Pet, error) {
	return s.pets.GetByID(ctx, id)
}

func validatePetInput(in *PetInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return models.NewValidationError("Name is required")
	}
	if in.Species != "" && !models.ValidSpecies(in.Species) {
		return models.NewValidationError("Unknown species")
	}
	if in.Age != "" && !models.ValidAge(in.Age) {
		return models.NewValidationError("Unknown age group")
	}
	if in.Size != "" && !models.ValidSize(in.Size) {
		return models.NewValidationError("Unknown size")
	}
	return nil
}

// Create publishes a listing owned by the calling shelter.
func (s *PetService) Create(ctx context.Context, shelterID uint, in PetInput) (*models.Pet, error) {
	if err := validatePetInput(&in); err != nil {
		return nil, err
	}

	pet := &models.Pet{
		ShelterID:      shelterID,
		Name:           in.Name,
		Species:        in.Species,
		Age:            in.Age,
		Size:           in.Size,
		Breed:          in.Breed,
		Color:          in.Color,
		Location:       in.Location,
		Description:    in.Description,
		MedicalHistory: in.MedicalHistory,
		Photos:         in.Photos,
	}
	if err := s.pets.Create(ctx, pet); err != nil {
		return nil, err
	}
	return s.pets.GetByID(ctx, pet.ID)
}

// Update edits a listing. New photos append to the existing set rather
// than replacing it. Only the owning shelter may update.
func (s *PetService) Update(ctx context.Context, petID, callerID uint, in PetInput) (*models.Pet, error) {
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.ShelterID != callerID {
		return nil, models.NewForbiddenError("Only the owning shelter can update this pet")
	}
	if err := validatePetInput(&in); err != nil {
		return nil, err
	}

	pet.Name = in.Name
	if in.Species != "" {
		pet.Species = in.Species
	}
	if in.Age != "" {
		pet.Age = in.Age
	}
	if in.Size != "" {
		pet.Size = in.Size
	}
	pet.Breed = in.Breed
	pet.Color = in.Color
	pet.Location = in.Location
	pet.Description = in.Description
	pet.MedicalHistory = in.MedicalHistory
	pet.Photos = append(pet.Photos, in.Photos...)

	if err := s.pets.Update(ctx, pet); err != nil {
		return nil, err
	}
	return pet, nil
}

// Delete removes a listing. Only the owning shelter may delete.
func (s *PetService) Delete(ctx context.Context, petID, callerID uint) error {
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	if pet.ShelterID != callerID {
		return models.NewForbiddenError("Only the owning shelter can delete this pet")
	}
	return s.pets.Delete(ctx, pet)
}
