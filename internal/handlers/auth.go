package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/task-manager-api/internal/dto"
	apierrors "github.com/taskhive/task-manager-api/internal/errors"
	"github.com/taskhive/task-manager-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an unverified user and emails the OTP.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		FirstName    string `json:"firstName" binding:"required"`
		LastName     string `json:"lastName" binding:"required"`
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required,min=6"`
		Gender       string `json:"gender" binding:"required"`
		MobileNumber string `json:"mobileNumber" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "All fields are required")
		return
	}

	err := h.authService.Register(services.RegisterInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		Gender:       req.Gender,
		MobileNumber: req.MobileNumber,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully. OTP sent to email.",
	})
}

// VerifyOtp completes a pending registration.
func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	type VerifyOtpRequest struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required"`
	}

	var req VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Email and OTP are required")
		return
	}

	if err := h.authService.VerifyOTP(req.Email, req.OTP); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OTP verified successfully",
	})
}

// ResendOtp issues a fresh OTP for an unverified account.
func (h *AuthHandler) ResendOtp(c *gin.Context) {
	type ResendOtpRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req ResendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Email is required")
		return
	}

	if err := h.authService.ResendOTP(req.Email); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OTP sent to email.",
	})
}

// Login authenticates a user and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Email and password are required")
		return
	}

	token, user, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    dto.ToProfileDTO(*user),
	})
}

// ForgotPassword emails a single-use reset link.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	type ForgotPasswordRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Email is required")
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset email sent successfully",
	})
}

// ResetPassword consumes an emailed reset token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	type ResetPasswordRequest struct {
		ResetToken  string `json:"resetToken" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Reset token and new password are required")
		return
	}

	if err := h.authService.ResetPassword(req.ResetToken, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password has been successfully reset",
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "User already exists")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrInvalidOTP):
		apierrors.BadRequest(c, "Invalid or expired OTP")
	case errors.Is(err, services.ErrAlreadyVerified):
		apierrors.BadRequest(c, "User is already verified")
	case errors.Is(err, services.ErrInvalidResetToken):
		apierrors.BadRequest(c, "Invalid or expired reset token")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, services.ErrNotVerified):
		apierrors.Unauthorized(c, "User is not verified. Please complete OTP verification.")
	case errors.Is(err, services.ErrEmailSendFailed):
		apierrors.InternalError(c, "Failed to send email. Please try again.", err)
	default:
		apierrors.InternalError(c, "Something went wrong", err)
	}
}
