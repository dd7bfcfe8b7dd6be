package models

import "time"

// Favorite is a user's saved pet set, one row per user. Toggling a
// pet id is an involution: add-if-absent, remove-if-present.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	PetIDs    []uint    `gorm:"serializer:json" json:"pet_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Has reports whether petID is in the favorite set.
func (f *Favorite) Has(petID uint) bool {
	for _, id := range f.PetIDs {
		if id == petID {
			return true
		}
	}
	return false
}

// Toggle adds petID if absent and removes it if present.
func (f *Favorite) Toggle(petID uint) {
	for i, id := range f.PetIDs {
		if id == petID {
			f.PetIDs = append(f.PetIDs[:i], f.PetIDs[i+1:]...)
			return
		}
	}
	f.PetIDs = append(f.PetIDs, petID)
}
