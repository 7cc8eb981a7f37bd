package ports

import (
	"context"
	"mime/multipart"
)

// PictureStore saves uploaded profile pictures and returns the stored filename.
type PictureStore interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
}
