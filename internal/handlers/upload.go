package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskhive/task-manager-api/internal/errors"
	"github.com/taskhive/task-manager-api/internal/media"
)

// UploadHandler pushes uploaded images to the media host.
type UploadHandler struct {
	uploader media.Uploader
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploader media.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// UploadImage accepts a multipart image (jpg/jpeg/png) and returns the
// hosted URL.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		apierrors.BadRequest(c, "No file uploaded")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		apierrors.BadRequest(c, "Only jpg, jpeg and png images are allowed")
		return
	}

	if h.uploader == nil {
		apierrors.RespondWithError(c, http.StatusServiceUnavailable,
			apierrors.NewAPIError("Image hosting is not configured"))
		return
	}

	// Spool to a temp file; the media client takes a path.
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		apierrors.InternalError(c, "Failed to store uploaded file", err)
		return
	}
	defer os.Remove(tmpPath)

	url, err := h.uploader.Upload(c.Request.Context(), tmpPath)
	if err != nil {
		apierrors.InternalError(c, "Something went wrong", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     url,
	})
}
