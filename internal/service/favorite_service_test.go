package service

import (
	"context"
	"testing"

	"pawhaven/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// favoriteRepoStub is a stub for repository.FavoriteRepository.
type favoriteRepoStub struct {
	getOrCreateFn func(context.Context, uint) (*models.Favorite, error)
	updateFn      func(context.Context, *models.Favorite) error
}

func (s *favoriteRepoStub) GetOrCreate(ctx context.Context, userID uint) (*models.Favorite, error) {
	return s.getOrCreateFn(ctx, userID)
}
func (s *favoriteRepoStub) Update(ctx context.Context, fav *models.Favorite) error {
	return s.updateFn(ctx, fav)
}

func TestFavoriteToggle_Involution(t *testing.T) {
	fav := &models.Favorite{ID: 1, UserID: 9, PetIDs: []uint{}}
	favorites := &favoriteRepoStub{
		getOrCreateFn: func(_ context.Context, _ uint) (*models.Favorite, error) { return fav, nil },
		updateFn:      func(_ context.Context, f *models.Favorite) error { fav = f; return nil },
	}
	pets := &petRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Pet, error) {
			if id == 7 {
				return &models.Pet{ID: 7}, nil
			}
			return nil, models.NewNotFoundError("Pet")
		},
	}
	svc := NewFavoriteService(favorites, pets)

	ids, favorited, err := svc.Toggle(context.Background(), 9, 7)
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.Equal(t, []uint{7}, ids)

	// toggling twice restores the original set
	ids, favorited, err = svc.Toggle(context.Background(), 9, 7)
	require.NoError(t, err)
	assert.False(t, favorited)
	assert.Empty(t, ids)

	_, _, err = svc.Toggle(context.Background(), 9, 99)
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusOf(err))
}

func TestFavoriteList_SkipsVanishedPets(t *testing.T) {
	favorites := &favoriteRepoStub{
		getOrCreateFn: func(_ context.Context, _ uint) (*models.Favorite, error) {
			return &models.Favorite{ID: 1, UserID: 9, PetIDs: []uint{7, 8}}, nil
		},
	}
	pets := &petRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Pet, error) {
			if id == 7 {
				return &models.Pet{ID: 7, Name: "Luna"}, nil
			}
			return nil, models.NewNotFoundError("Pet")
		},
	}
	svc := NewFavoriteService(favorites, pets)

	list, err := svc.List(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Luna", list[0].Name)
}
