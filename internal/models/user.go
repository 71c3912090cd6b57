package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type User struct {
	ID           uint64   `gorm:"primarykey" json:"id"`
	FirstName    string   `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName     string   `gorm:"type:varchar(100);not null" json:"lastName"`
	Email        string   `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"type:varchar(255);not null" json:"-"`
	MobileNumber string   `gorm:"type:varchar(20)" json:"mobileNumber"`
	City         string   `gorm:"type:varchar(100)" json:"city"`
	Gender       string   `gorm:"type:varchar(20)" json:"gender"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Verified     bool     `gorm:"not null;default:false" json:"verified"`

	// Pending OTP verification state. Both fields are set while a
	// registration awaits confirmation and cleared together on success.
	OTP          *string    `gorm:"type:varchar(10)" json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	OTPAttempts  int        `gorm:"not null;default:0" json:"-"`

	// Pending password reset state. Only the SHA-256 hash of the emailed
	// token is stored; both fields are cleared when the token is consumed.
	PasswordResetTokenHash *string    `gorm:"type:varchar(64);index" json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`

	// Bumped whenever credentials or role change so outstanding session
	// tokens stop verifying before their natural expiry.
	TokenVersion int `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Tasks []Task `gorm:"foreignKey:UserID" json:"-"`
}
