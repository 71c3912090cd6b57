package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taskhive/task-manager-api/internal/constants"
	"github.com/taskhive/task-manager-api/internal/models"
	"github.com/taskhive/task-manager-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// fakeMailer captures outbound mail and can simulate a dead relay.
type fakeMailer struct {
	sent    []sentMail
	failing bool
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.failing {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type authServiceTestEnv struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	mailer   *fakeMailer
	service  *AuthService
}

func setupAuthServiceTestEnv(t *testing.T) authServiceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	m := &fakeMailer{}
	service := NewAuthService(userRepo, m, "test-secret", "http://localhost:3000/reset-password")

	return authServiceTestEnv{
		db:       db,
		userRepo: userRepo,
		mailer:   m,
		service:  service,
	}
}

func registerInput(email string) RegisterInput {
	return RegisterInput{
		FirstName:    "John",
		LastName:     "Doe",
		Email:        email,
		Password:     "Password@123",
		Gender:       "Male",
		MobileNumber: "9876543210",
	}
}

func (env authServiceTestEnv) mustFindUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := env.userRepo.FindByEmail(email)
	require.NoError(t, err)
	return user
}

func TestAuthService_RegisterVerifyLogin(t *testing.T) {
	env := setupAuthServiceTestEnv(t)

	require.NoError(t, env.service.Register(registerInput("a@x.com")))
	require.Len(t, env.mailer.sent, 1)

	user := env.mustFindUser(t, "a@x.com")
	require.False(t, user.Verified)
	require.NotNil(t, user.OTP)
	require.NotNil(t, user.OTPExpiresAt)
	require.Contains(t, env.mailer.sent[0].Body, *user.OTP)

	// Unverified accounts never get a session token.
	_, _, err := env.service.Login(LoginInput{Email: "a@x.com", Password: "Password@123"})
	require.ErrorIs(t, err, ErrNotVerified)

	require.ErrorIs(t, env.service.VerifyOTP("a@x.com", "000000"), ErrInvalidOTP)
	require.NoError(t, env.service.VerifyOTP("a@x.com", *user.OTP))

	user = env.mustFindUser(t, "a@x.com")
	require.True(t, user.Verified)
	require.Nil(t, user.OTP)
	require.Nil(t, user.OTPExpiresAt)

	token, loggedIn, err := env.service.Login(LoginInput{Email: "a@x.com", Password: "Password@123"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, user.ID, loggedIn.ID)

	// Wrong password and unknown email share one generic error.
	_, _, err = env.service.Login(LoginInput{Email: "a@x.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = env.service.Login(LoginInput{Email: "nobody@x.com", Password: "Password@123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	env := setupAuthServiceTestEnv(t)

	require.NoError(t, env.service.Register(registerInput("dup@x.com")))
	require.ErrorIs(t, env.service.Register(registerInput("DUP@x.com")), ErrEmailTaken)

	var count int64
	env.db.Model(&models.User{}).Where("email = ?", "dup@x.com").Count(&count)
	require.EqualValues(t, 1, count)
}

func TestAuthService_RegisterEmailSendFailure(t *testing.T) {
	env := setupAuthServiceTestEnv(t)
	env.mailer.failing = true

	err := env.service.Register(registerInput("gone@x.com"))
	require.ErrorIs(t, err, ErrEmailSendFailed)

	// No half-registered record left behind.
	var count int64
	env.db.Model(&models.User{}).Count(&count)
	require.EqualValues(t, 0, count)
}

func TestAuthService_VerifyOTPExpired(t *testing.T) {
	env := setupAuthServiceTestEnv(t)

	require.NoError(t, env.service.Register(registerInput("late@x.com")))
	user := env.mustFindUser(t, "late@x.com")
	otp := *user.OTP

	past := time.Now().Add(-time.Minute)
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("otp_expires_at", past).Error)

	// The code itself is correct, but the window has closed.
	require.ErrorIs(t, env.service.VerifyOTP("late@x.com", otp), ErrInvalidOTP)

	user = env.mustFindUser(t, "late@x.com")
	require.False(t, user.Verified)
}

func TestAuthService_VerifyOTPAttemptLimit(t *testing.T) {
	env := setupAuthServiceTestEnv(t)

	require.NoError(t, env.service.Register(registerInput("brute@x.com")))
	user := env.mustFindUser(t, "brute@x.com")
	otp := *user.OTP

	for i := 0; i < constants.MaxOTPAttempts; i++ {
		require.ErrorIs(t, env.service.VerifyOTP("brute@x.com", "999999"), ErrInvalidOTP)
	}

	// The pending code is gone; even the right guess fails now.
	require.ErrorIs(t, env.service.VerifyOTP("brute@x.com", otp), ErrInvalidOTP)

	// A resent code starts over and works.
	require.NoError(t, env.service.ResendOTP("brute@x.com"))
	user = env.mustFindUser(t, "brute@x.com")
	require.NotNil(t, user.OTP)
	require.NoError(t, env.service.VerifyOTP("brute@x.com", *user.OTP))
}

func TestAuthService_VerifyOTPUnknownUser(t *testing.T) {
	env := setupAuthServiceTestEnv(t)
	require.ErrorIs(t, env.service.VerifyOTP("nobody@x.com", "123456"), ErrUserNotFound)
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	env := setupAuthServiceTestEnv(t)

	require.NoError(t, env.service.Register(registerInput("reset@x.com")))
	user := env.mustFindUser(t, "reset@x.com")
	require.NoError(t, env.service.VerifyOTP("reset@x.com", *user.OTP))

	require.ErrorIs(t, env.service.ForgotPassword("nobody@x.com"), ErrUserNotFound)
	require.NoError(t, env.service.ForgotPassword("reset@x.com"))

	user = env.mustFindUser(t, "reset@x.com")
	require.NotNil(t, user.PasswordResetTokenHash)
	require.NotNil(t, user.PasswordResetExpiresAt)
	versionBefore := user.TokenVersion

	rawToken := extractResetToken(t, env.mailer.sent[len(env.mailer.sent)-1].Body)
	// The raw token is never persisted, only its hash.
	require.NotEqual(t, rawToken, *user.PasswordResetTokenHash)

	require.NoError(t, env.service.ResetPassword(rawToken, "NewPassword@123"))

	user = env.mustFindUser(t, "reset@x.com")
	require.Nil(t, user.PasswordResetTokenHash)
	require.Nil(t, user.PasswordResetExpiresAt)
	require.Equal(t, versionBefore+1, user.TokenVersion)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("NewPassword@123")))

	// Single use: replaying the same token fails.
	require.ErrorIs(t, env.service.ResetPassword(rawToken, "Another@123"), ErrInvalidResetToken)

	_, _, err := env.service.Login(LoginInput{Email: "reset@x.com", Password: "NewPassword@123"})
	require.NoError(t, err)
}

func TestAuthService_ResetPasswordExpiredToken(t *testing.T) {
	env := setupAuthServiceTestEnv(t)

	require.NoError(t, env.service.Register(registerInput("expired@x.com")))
	user := env.mustFindUser(t, "expired@x.com")
	require.NoError(t, env.service.VerifyOTP("expired@x.com", *user.OTP))
	require.NoError(t, env.service.ForgotPassword("expired@x.com"))

	past := time.Now().Add(-time.Minute)
	require.NoError(t, env.db.Model(&models.User{}).Where("email = ?", "expired@x.com").
		Update("password_reset_expires_at", past).Error)

	rawToken := extractResetToken(t, env.mailer.sent[len(env.mailer.sent)-1].Body)
	require.ErrorIs(t, env.service.ResetPassword(rawToken, "NewPassword@123"), ErrInvalidResetToken)
}

func extractResetToken(t *testing.T, body string) string {
	t.Helper()
	parts := strings.Split(body, "reset-token=")
	require.Len(t, parts, 2)
	return strings.TrimSpace(parts[1])
}
