package repository

import (
	"context"
	"errors"
	"strings"

	"pawhaven/internal/models"

	"gorm.io/gorm"
)

// PetFilter captures the search and pagination parameters for listings.
type PetFilter struct {
	Text     string // matches name, breed, or description
	Species  string
	Age      string
	Size     string
	Location string
	Breed    string

	// ShelterID limits results to one shelter's listings.
	ShelterID uint
	// ExcludeShelterID hides a shelter's own listings, used for the
	// adopter-facing browse view.
	ExcludeShelterID uint

	Page  int
	Limit int
}

// PetRepository defines persistence operations for pet listings.
type PetRepository interface {
	List(ctx context.Context, filter PetFilter) ([]models.Pet, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Pet, error)
	Create(ctx context.Context, pet *models.Pet) error
	Update(ctx context.Context, pet *models.Pet) error
	Delete(ctx context.Context, pet *models.Pet) error
}

type petRepository struct {
	db *gorm.DB
}

// NewPetRepository returns a new PetRepository implementation.
func NewPetRepository(db *gorm.DB) PetRepository {
	return &petRepository{db: db}
}

func (r *petRepository) List(ctx context.Context, filter PetFilter) ([]models.Pet, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Pet{})

	if text := strings.TrimSpace(filter.Text); text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(breed) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Species != "" {
		query = query.Where("species = ?", filter.Species)
	}
	if filter.Age != "" {
		query = query.Where("age = ?", filter.Age)
	}
	if filter.Size != "" {
		query = query.Where("size = ?", filter.Size)
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}
	if breed := strings.TrimSpace(filter.Breed); breed != "" {
		query = query.Where("LOWER(breed) LIKE ?", "%"+strings.ToLower(breed)+"%")
	}
	if filter.ShelterID != 0 {
		query = query.Where("shelter_id = ?", filter.ShelterID)
	}
	if filter.ExcludeShelterID != 0 {
		query = query.Where("shelter_id <> ?", filter.ExcludeShelterID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 12
	}

	var pets []models.Pet
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&pets).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return pets, total, nil
}

func (r *petRepository) GetByID(ctx context.Context, id uint) (*models.Pet, error) {
	var pet models.Pet
	err := r.db.WithContext(ctx).
		Preload("Shelter").
		First(&pet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Pet")
		}
		return nil, models.NewInternalError(err)
	}
	return &pet, nil
}

func (r *petRepository) Create(ctx context.Context, pet *models.Pet) error {
	if err := r.db.WithContext(ctx).Create(pet).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *petRepository) Update(ctx context.Context, pet *models.Pet) error {
	if err := r.db.WithContext(ctx).Save(pet).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *petRepository) Delete(ctx context.Context, pet *models.Pet) error {
	if err := r.db.WithContext(ctx).Delete(pet).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
