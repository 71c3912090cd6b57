package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taskhive/task-manager-api/internal/constants"
	"github.com/taskhive/task-manager-api/internal/models"
	"github.com/taskhive/task-manager-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles admin-side user management.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents input for an admin-created account.
type CreateUserInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	MobileNumber string
	City         string
}

// UpdateUserInput represents a partial user patch.
type UpdateUserInput struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Password     *string
	MobileNumber *string
	City         *string
	Gender       *string
	Role         *models.UserRole
}

// CreateUser creates an already-verified account on behalf of an admin.
func (s *UserService) CreateUser(input CreateUserInput) error {
	email := normalizeEmail(input.Email)

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), constants.BcryptCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: string(hash),
		MobileNumber: input.MobileNumber,
		City:         input.City,
		Role:         models.RoleUser,
		Verified:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// ListUsers returns all non-admin accounts.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.ListByRole(models.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies a partial patch and returns the updated record.
// Password and role changes invalidate outstanding session tokens.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
	}
	if input.MobileNumber != nil {
		user.MobileNumber = *input.MobileNumber
	}
	if input.City != nil {
		user.City = *input.City
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
	if input.Role != nil && *input.Role != user.Role {
		user.Role = *input.Role
		user.TokenVersion++
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), constants.BcryptCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hash)
		user.TokenVersion++
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes an account.
func (s *UserService) DeleteUser(id uint64) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
