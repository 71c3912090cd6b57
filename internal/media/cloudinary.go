package media

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader hosts images on Cloudinary.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
}

// NewCloudinaryUploader creates an uploader from a CLOUDINARY_URL-style DSN.
func NewCloudinaryUploader(cloudinaryURL string) (*CloudinaryUploader, error) {
	client, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &CloudinaryUploader{client: client}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, filePath string) (string, error) {
	result, err := u.client.Upload.Upload(ctx, filePath, uploader.UploadParams{
		Folder: "images",
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return result.SecureURL, nil
}
