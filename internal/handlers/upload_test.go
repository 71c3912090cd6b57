package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/task-manager-api/internal/media"
)

type fakeUploader struct {
	uploaded []string
}

func (u *fakeUploader) Upload(_ context.Context, filePath string) (string, error) {
	u.uploaded = append(u.uploaded, filePath)
	return "https://media.example.com/images/abc123.png", nil
}

func setupUploadRouter(uploader media.Uploader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/upload-image", NewUploadHandler(uploader).UploadImage)
	return r
}

func multipartImage(t *testing.T, filename string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("not-a-real-image"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestUploadImage_Success(t *testing.T) {
	uploader := &fakeUploader{}
	r := setupUploadRouter(uploader)

	body, contentType := multipartImage(t, "photo.png")
	req := httptest.NewRequest(http.MethodPost, "/api/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, uploader.uploaded, 1)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, true, response["success"])
	require.Equal(t, "https://media.example.com/images/abc123.png", response["url"])
}

func TestUploadImage_RejectsUnsupportedExtension(t *testing.T) {
	uploader := &fakeUploader{}
	r := setupUploadRouter(uploader)

	body, contentType := multipartImage(t, "clip.gif")
	req := httptest.NewRequest(http.MethodPost, "/api/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, uploader.uploaded)
}

func TestUploadImage_MissingFile(t *testing.T) {
	r := setupUploadRouter(&fakeUploader{})

	req := httptest.NewRequest(http.MethodPost, "/api/upload-image", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImage_NotConfigured(t *testing.T) {
	r := setupUploadRouter(nil)

	body, contentType := multipartImage(t, "photo.jpg")
	req := httptest.NewRequest(http.MethodPost, "/api/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
