package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskhive/task-manager-api/internal/constants"
	"github.com/taskhive/task-manager-api/internal/mailer"
	"github.com/taskhive/task-manager-api/internal/models"
	"github.com/taskhive/task-manager-api/internal/repository"
	"github.com/taskhive/task-manager-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidOTP           = errors.New("invalid or expired OTP")
	ErrAlreadyVerified      = errors.New("user is already verified")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrNotVerified          = errors.New("user is not verified, please complete OTP verification")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrEmailSendFailed      = errors.New("failed to send email")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, verification, sessions and password
// resets.
type AuthService struct {
	userRepo     repository.UserRepository
	mailer       mailer.Mailer
	jwtSecret    []byte
	resetURLBase string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, m mailer.Mailer, jwtSecret, resetURLBase string) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		mailer:       m,
		jwtSecret:    []byte(jwtSecret),
		resetURLBase: resetURLBase,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Gender       string
	MobileNumber string
}

// Register creates an unverified user and emails the verification code.
// The code is sent before the record is written: a dead mail relay must
// not leave half-registered accounts behind.
func (s *AuthService) Register(input RegisterInput) error {
	email := normalizeEmail(input.Email)

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	body := fmt.Sprintf("Your OTP is %s. It is valid for %d minutes.", otp, int(constants.OTPTTL.Minutes()))
	if err := s.mailer.Send(email, "Your OTP for Registration", body); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailSendFailed, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), constants.BcryptCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	expiresAt := time.Now().Add(constants.OTPTTL)
	user := &models.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: string(hash),
		Gender:       input.Gender,
		MobileNumber: input.MobileNumber,
		Role:         models.RoleUser,
		OTP:          &otp,
		OTPExpiresAt: &expiresAt,
	}

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// VerifyOTP confirms a pending registration. Attempts are bounded: once
// the counter is exhausted the pending code is cleared and a fresh one
// must be requested via ResendOTP.
func (s *AuthService) VerifyOTP(email, otp string) error {
	user, err := s.findByEmail(email)
	if err != nil {
		return err
	}

	if user.Verified {
		return ErrAlreadyVerified
	}
	if user.OTP == nil || user.OTPExpiresAt == nil {
		return ErrInvalidOTP
	}
	if time.Now().After(*user.OTPExpiresAt) {
		return ErrInvalidOTP
	}

	if *user.OTP != otp {
		user.OTPAttempts++
		if user.OTPAttempts >= constants.MaxOTPAttempts {
			user.OTP = nil
			user.OTPExpiresAt = nil
			user.OTPAttempts = 0
		}
		if err := s.userRepo.Update(user); err != nil {
			return fmt.Errorf("failed to record otp attempt: %w", err)
		}
		return ErrInvalidOTP
	}

	user.Verified = true
	user.OTP = nil
	user.OTPExpiresAt = nil
	user.OTPAttempts = 0
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}

	return nil
}

// ResendOTP issues a fresh verification code for an unverified account.
func (s *AuthService) ResendOTP(email string) error {
	user, err := s.findByEmail(email)
	if err != nil {
		return err
	}
	if user.Verified {
		return ErrAlreadyVerified
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	body := fmt.Sprintf("Your OTP is %s. It is valid for %d minutes.", otp, int(constants.OTPTTL.Minutes()))
	if err := s.mailer.Send(user.Email, "Your OTP for Registration", body); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailSendFailed, err)
	}

	expiresAt := time.Now().Add(constants.OTPTTL)
	user.OTP = &otp
	user.OTPExpiresAt = &expiresAt
	user.OTPAttempts = 0
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	return nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns a signed session token plus the
// authenticated user. Unknown emails and wrong passwords share the same
// error so neither can be told apart from outside.
func (s *AuthService) Login(input LoginInput) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.Verified {
		return "", nil, ErrNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, user, nil
}

// IssueToken signs a one-hour HS256 session token for a user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":       user.ID,
		"email":         user.Email,
		"token_version": user.TokenVersion,
		"exp":           time.Now().Add(constants.SessionTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ForgotPassword stores a hashed single-use reset token and emails the
// raw token embedded in a reset link. The raw token is never persisted.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.findByEmail(email)
	if err != nil {
		return err
	}

	raw, hash, err := utils.GenerateResetToken(constants.ResetTokenBytes)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(constants.ResetTokenTTL)
	user.PasswordResetTokenHash = &hash
	user.PasswordResetExpiresAt = &expiresAt
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/?reset-token=%s", s.resetURLBase, raw)
	body := fmt.Sprintf("Reset your password using the link below:\n\n%s", resetURL)
	if err := s.mailer.Send(user.Email, "Password Reset Request", body); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailSendFailed, err)
	}

	return nil
}

// ResetPassword consumes a raw reset token. The match, password swap and
// field clearing happen in a single conditional update, so a replayed or
// concurrent attempt with the same token finds nothing left to consume.
func (s *AuthService) ResetPassword(rawToken, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), constants.BcryptCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	consumed, err := s.userRepo.ConsumePasswordReset(utils.HashResetToken(rawToken), string(hash), time.Now())
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if !consumed {
		return ErrInvalidResetToken
	}

	return nil
}

func (s *AuthService) findByEmail(email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
