package dto

import (
	"time"

	"github.com/taskhive/task-manager-api/internal/models"
)

// UserDTO represents a user in API responses.
type UserDTO struct {
	ID           uint64          `json:"id"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Email        string          `json:"email"`
	MobileNumber string          `json:"mobileNumber,omitempty"`
	City         string          `json:"city,omitempty"`
	Gender       string          `json:"gender,omitempty"`
	Role         models.UserRole `json:"role"`
	Verified     bool            `json:"verified"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProfileDTO is the shallow projection returned on login.
type ProfileDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ToUserDTO converts a User model to UserDTO.
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		MobileNumber: user.MobileNumber,
		City:         user.City,
		Gender:       user.Gender,
		Role:         user.Role,
		Verified:     user.Verified,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// ToUserDTOs converts a slice of users.
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return dtos
}

// ToProfileDTO converts a User model to its login projection.
func ToProfileDTO(user models.User) ProfileDTO {
	return ProfileDTO{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
}
