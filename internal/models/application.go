package models

import "time"

// Application statuses.
const (
	StatusPending   = "pending"
	StatusReviewing = "reviewing"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// ValidStatus reports whether v is a member of the status enum.
// Transitions between statuses are deliberately not restricted; the
// shelter may set any enum value at any time.
func ValidStatus(v string) bool {
	switch v {
	case StatusPending, StatusReviewing, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Application is an adoption application for a pet. ShelterID is
// snapshotted from the pet's owner at creation time so a later
// ownership transfer of the pet does not re-route existing
// applications.
type Application struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PetID       uint      `gorm:"index;not null" json:"pet_id"`
	Pet         *Pet      `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	ShelterID   uint      `gorm:"index;not null" json:"shelter_id"`
	ApplicantID uint      `gorm:"index;not null" json:"applicant_id"`
	Applicant   *User     `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	About       string    `json:"about,omitempty"`
	Home        string    `json:"home,omitempty"`
	HavePets    bool      `json:"have_pets"`
	Status      string    `gorm:"index;default:pending" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
