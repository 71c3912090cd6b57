package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/taskhive/task-manager-api/internal/constants"
	"github.com/taskhive/task-manager-api/internal/database"
	apierrors "github.com/taskhive/task-manager-api/internal/errors"
	"github.com/taskhive/task-manager-api/internal/models"
)

// RequireAuth validates the bearer token, loads the referenced user and
// attaches it to the context. Tokens issued before a password reset or
// role change carry a stale token_version and are rejected here.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	secret := []byte(jwtSecret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			apierrors.Unauthorized(c, "Authorization token is required")
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// JWT numbers decode as float64.
		userID, ok := claims["user_id"].(float64)
		if !ok {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, uint64(userID)).Error; err != nil {
			apierrors.Unauthorized(c, "User not found")
			c.Abort()
			return
		}

		if version, ok := claims["token_version"].(float64); !ok || int(version) != user.TokenVersion {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// RequireAdmin enforces the admin role. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetCurrentUser(c)
		if !exists {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		if user.Role != models.RoleAdmin {
			apierrors.Forbidden(c, "Access denied. Admins only.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetCurrentUser retrieves the authenticated user from context.
func GetCurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// GetUserID retrieves the current user ID from context.
func GetUserID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint64)
	return id, ok
}
