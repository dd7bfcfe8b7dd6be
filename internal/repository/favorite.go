package repository

import (
	"context"
	"errors"

	"pawhaven/internal/models"

	"gorm.io/gorm"
)

// FavoriteRepository defines persistence operations for favorite lists.
type FavoriteRepository interface {
	// GetOrCreate returns the user's favorite list, creating an empty
	// one on first use.
	GetOrCreate(ctx context.Context, userID uint) (*models.Favorite, error)
	Update(ctx context.Context, fav *models.Favorite) error
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository returns a new FavoriteRepository implementation.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) GetOrCreate(ctx context.Context, userID uint) (*models.Favorite, error) {
	var fav models.Favorite
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&fav).Error
	if err == nil {
		return &fav, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	fav = models.Favorite{UserID: userID, PetIDs: []uint{}}
	if err := r.db.WithContext(ctx).Create(&fav).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &fav, nil
}

func (r *favoriteRepository) Update(ctx context.Context, fav *models.Favorite) error {
	if err := r.db.WithContext(ctx).Save(fav).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
