package models

import "time"

// Review target types.
const (
	ReviewTargetPet     = "pet"
	ReviewTargetShelter = "shelter"
)

// ValidReviewTarget reports whether v is a supported review target type.
func ValidReviewTarget(v string) bool {
	return v == ReviewTargetPet || v == ReviewTargetShelter
}

// Review is a rating against a pet or a shelter. The target reference
// is polymorphic and not checked for referential integrity.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TargetType string    `gorm:"index:idx_review_target;not null" json:"target_type"`
	TargetID   uint      `gorm:"index:idx_review_target;not null" json:"target_id"`
	AuthorID   uint      `gorm:"index;not null" json:"author_id"`
	Author     *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"not null" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// ClampRating bounds a rating to the [1,5] scale.
func ClampRating(rating int) int {
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}
