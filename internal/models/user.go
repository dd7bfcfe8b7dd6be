// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleAdopter = "adopter"
	RoleShelter = "shelter"
)

// ValidRole reports whether role is one of the supported account roles.
func ValidRole(role string) bool {
	return role == RoleAdopter || role == RoleShelter
}

// User represents an account in the PawHaven marketplace. A user with
// role "shelter" owns pet listings; a user with role "adopter" applies
// for them.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Role            string         `gorm:"not null;default:adopter" json:"role"`
	Name            string         `gorm:"not null" json:"name"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	Password        string         `gorm:"not null" json:"-"`
	City            string         `json:"city,omitempty"`
	State           string         `json:"state,omitempty"`
	About           string         `json:"about,omitempty"`
	ResetOTP        string         `json:"-"`
	ResetOTPExpires *time.Time     `json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// PublicUser is the projection of a user safe to embed in responses.
type PublicUser struct {
	ID    uint   `json:"id"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the response projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email}
}
