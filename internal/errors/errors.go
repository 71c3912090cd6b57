package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError carries the response envelope every endpoint answers with.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"error,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string) *APIError {
	return &APIError{Success: false, Message: message}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(message))
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(message))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(message))
}

// InternalError sends a 500 response. The underlying error text is
// included in the payload alongside the generic message.
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "Something went wrong"
	}
	apiErr := NewAPIError(message)
	if err != nil {
		apiErr.Detail = err.Error()
	}
	RespondWithError(c, http.StatusInternalServerError, apiErr)
}
