package models

import (
	"time"

	"gorm.io/gorm"
)

// Pet listing enums.
var (
	PetSpecies = []string{"Dog", "Cat", "Rabbit", "Bird", "Other"}
	PetAges    = []string{"Baby", "Young", "Adult", "Senior"}
	PetSizes   = []string{"Small", "Medium", "Large"}
)

// Pet is a listing owned by a shelter user.
type Pet struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ShelterID      uint           `gorm:"index;not null" json:"shelter_id"`
	Shelter        *User          `gorm:"foreignKey:ShelterID" json:"shelter,omitempty"`
	Name           string         `gorm:"not null" json:"name"`
	Species        string         `gorm:"index;default:Dog" json:"species"`
	Age            string         `gorm:"default:Adult" json:"age"`
	Size           string         `gorm:"default:Medium" json:"size"`
	Breed          string         `json:"breed,omitempty"`
	Color          string         `json:"color,omitempty"`
	Location       string         `json:"location,omitempty"`
	Description    string         `json:"description,omitempty"`
	MedicalHistory string         `json:"medical_history,omitempty"`
	Photos         []string       `gorm:"serializer:json" json:"photos"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// PetSummary is the compact pet projection embedded in application and
// thread responses.
type PetSummary struct {
	ID     uint     `json:"id"`
	Name   string   `json:"name"`
	Photos []string `json:"photos,omitempty"`
}

// Summary returns the compact projection of the pet.
func (p *Pet) Summary() PetSummary {
	return PetSummary{ID: p.ID, Name: p.Name, Photos: p.Photos}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// ValidSpecies reports whether v is a supported species.
func ValidSpecies(v string) bool { return contains(PetSpecies, v) }

// ValidAge reports whether v is a supported age bracket.
func ValidAge(v string) bool { return contains(PetAges, v) }

// ValidSize reports whether v is a supported size.
func ValidSize(v string) bool { return contains(PetSizes, v) }
