package repository

import (
	"time"

	"github.com/taskhive/task-manager-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by (lowercased) email
	FindByEmail(email string) (*models.User, error)

	// Update saves all fields of a user
	Update(user *models.User) error

	// Delete soft deletes a user
	Delete(id uint64) error

	// ListByRole lists users with the given role
	ListByRole(role models.UserRole) ([]models.User, error)

	// ConsumePasswordReset atomically matches an unexpired reset-token
	// hash, swaps in the new password hash, clears the reset fields and
	// bumps the token version. Returns false when no row matched, i.e.
	// the token is unknown, expired, or already used.
	ConsumePasswordReset(tokenHash, newPasswordHash string, now time.Time) (bool, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// ListByOwner lists all tasks owned by a user
	ListByOwner(userID uint64) ([]models.Task, error)

	// Update saves all fields of a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error
}
