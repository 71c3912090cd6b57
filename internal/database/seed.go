package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/taskhive/task-manager-api/internal/config"
	"github.com/taskhive/task-manager-api/internal/constants"
	"github.com/taskhive/task-manager-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureDefaultAdmin creates the configured admin account if no admin
// exists yet. Restarts are no-ops once one is present.
func EnsureDefaultAdmin(db *gorm.DB, cfg *config.Config) error {
	var admin models.User
	err := db.Where("role = ?", models.RoleAdmin).First(&admin).Error
	if err == nil {
		log.Println("Default admin already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), constants.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin = models.User{
		FirstName:    cfg.AdminFirstName,
		LastName:     cfg.AdminLastName,
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Verified:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	log.Println("Default admin created successfully")
	return nil
}
