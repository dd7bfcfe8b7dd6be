package service

import (
	"context"

	"pawhaven/internal/models"
	"pawhaven/internal/repository"
)

// FavoriteService owns per-user favorite pet sets.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	pets      repository.PetRepository
}

// NewFavoriteService returns a new FavoriteService.
func NewFavoriteService(favorites repository.FavoriteRepository, pets repository.PetRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, pets: pets}
}

// List returns the user's favorite pets. Pets that no longer exist are
// skipped rather than erroring the whole list.
func (s *FavoriteService) List(ctx context.Context, userID uint) ([]models.Pet, error) {
	fav, err := s.favorites.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	pets := make([]models.Pet, 0, len(fav.PetIDs))
	for _, id := range fav.PetIDs {
		pet, err := s.pets.GetByID(ctx, id)
		if err != nil {
			if models.StatusOf(err) == 404 {
				continue
			}
			return nil, err
		}
		pets = append(pets, *pet)
	}
	return pets, nil
}

// Toggle adds the pet to the set if absent, removes it if present.
// Returns the resulting set and whether the pet is now favorited.
func (s *FavoriteService) Toggle(ctx context.Context, userID, petID uint) ([]uint, bool, error) {
	if _, err := s.pets.GetByID(ctx, petID); err != nil {
		return nil, false, err
	}

	fav, err := s.favorites.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	fav.Toggle(petID)
	if err := s.favorites.Update(ctx, fav); err != nil {
		return nil, false, err
	}
	return fav.PetIDs, fav.Has(petID), nil
}
