package media

import "context"

// Uploader pushes a local file to the media host and returns a durable URL.
type Uploader interface {
	Upload(ctx context.Context, filePath string) (string, error)
}
