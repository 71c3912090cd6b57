package repository

import (
	"time"

	"github.com/taskhive/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves all fields of a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete soft deletes a user
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Delete(&models.User{}, id).Error
}

// ListByRole lists users with the given role
func (r *GormUserRepository) ListByRole(role models.UserRole) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role = ?", role).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ConsumePasswordReset performs the single-use reset in one conditional
// UPDATE so concurrent attempts with the same token cannot both succeed.
func (r *GormUserRepository) ConsumePasswordReset(tokenHash, newPasswordHash string, now time.Time) (bool, error) {
	result := r.db.Model(&models.User{}).
		Where("password_reset_token_hash = ? AND password_reset_expires_at > ?", tokenHash, now).
		Updates(map[string]interface{}{
			"password_hash":             newPasswordHash,
			"password_reset_token_hash": nil,
			"password_reset_expires_at": nil,
			"token_version":             gorm.Expr("token_version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
