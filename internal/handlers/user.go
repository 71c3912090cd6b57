package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/task-manager-api/internal/dto"
	apierrors "github.com/taskhive/task-manager-api/internal/errors"
	"github.com/taskhive/task-manager-api/internal/models"
	"github.com/taskhive/task-manager-api/internal/services"
)

// UserHandler coordinates admin-only user management handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser creates a verified account on behalf of an admin.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		FirstName    string `json:"firstName" binding:"required"`
		LastName     string `json:"lastName" binding:"required"`
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required,min=6"`
		MobileNumber string `json:"mobileNumber" binding:"required"`
		City         string `json:"city" binding:"required"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "All fields are required")
		return
	}

	err := h.userService.CreateUser(services.CreateUserInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		MobileNumber: req.MobileNumber,
		City:         req.City,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
	})
}

// ListUsers returns all non-admin accounts.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Users found successfully",
		"data":    dto.ToUserDTOs(users),
	})
}

// UpdateUser applies a partial patch to an account.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		FirstName    *string          `json:"firstName"`
		LastName     *string          `json:"lastName"`
		Email        *string          `json:"email"`
		Password     *string          `json:"password"`
		MobileNumber *string          `json:"mobileNumber"`
		City         *string          `json:"city"`
		Gender       *string          `json:"gender"`
		Role         *models.UserRole `json:"role"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(id, services.UpdateUserInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		MobileNumber: req.MobileNumber,
		City:         req.City,
		Gender:       req.Gender,
		Role:         req.Role,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"data":    dto.ToUserDTO(*user),
	})
}

// DeleteUser removes an account.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.BadRequest(c, "User already exists")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	default:
		apierrors.InternalError(c, "Something went wrong", err)
	}
}
