package service

import (
	"context"
	"testing"

	"pawhaven/internal/models"
	"pawhaven/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPetList_Pagination(t *testing.T) {
	pets := &petRepoStub{
		listFn: func(_ context.Context, filter repository.PetFilter) ([]models.Pet, int64, error) {
			assert.Equal(t, "dog", filter.Species)
			return []models.Pet{{ID: 1}, {ID: 2}}, 25, nil
		},
	}
	svc := NewPetService(pets)

	page, err := svc.List(context.Background(), repository.PetFilter{Species: "dog", Page: 1, Limit: 12})
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 2)
}

func TestPetCreate_Validation(t *testing.T) {
	svc := NewPetService(&petRepoStub{})

	tests := []struct {
		name  string
		input PetInput
	}{
		{"missing name", PetInput{Species: "dog"}},
		{"unknown species", PetInput{Name: "Luna", Species: "dragon"}},
		{"unknown age", PetInput{Name: "Luna", Age: "ancient"}},
		{"unknown size", PetInput{Name: "Luna", Size: "gigantic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 10, tt.input)
			require.Error(t, err)
			assert.Equal(t, 400, models.StatusOf(err))
		})
	}
}

func TestPetUpdate_OwnershipAndPhotoAppend(t *testing.T) {
	stored := &models.Pet{ID: 7, ShelterID: 10, Name: "Luna", Species: "dog", Photos: []string{"/uploads/a.jpg"}}
	pets := &petRepoStub{
		getByIDFn: func(_ context.Context, _ uint) (*models.Pet, error) {
			copied := *stored
			return &copied, nil
		},
		updateFn: func(_ context.Context, pet *models.Pet) error {
			stored = pet
			return nil
		},
	}
	svc := NewPetService(pets)

	t.Run("non-owner forbidden", func(t *testing.T) {
		_, err := svc.Update(context.Background(), 7, 33, PetInput{Name: "Luna"})
		require.Error(t, err)
		assert.Equal(t, 403, models.StatusOf(err))
	})

	t.Run("photos append rather than replace", func(t *testing.T) {
		pet, err := svc.Update(context.Background(), 7, 10, PetInput{
			Name:   "Luna",
			Photos: []string{"/uploads/b.jpg"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, pet.Photos)
	})
}

func TestPetDelete_OwnershipGate(t *testing.T) {
	deleted := false
	pets := &petRepoStub{
		getByIDFn: func(_ context.Context, _ uint) (*models.Pet, error) {
			return &models.Pet{ID: 7, ShelterID: 10}, nil
		},
		deleteFn: func(_ context.Context, _ *models.Pet) error {
			deleted = true
			return nil
		},
	}
	svc := NewPetService(pets)

	err := svc.Delete(context.Background(), 7, 33)
	require.Error(t, err)
	assert.False(t, deleted)

	require.NoError(t, svc.Delete(context.Background(), 7, 10))
	assert.True(t, deleted)
}
