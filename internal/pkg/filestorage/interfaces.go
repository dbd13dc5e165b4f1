package filestorage

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
)

// MaxImageSize is the largest accepted upload in bytes
const MaxImageSize = 5 << 20

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// StoredImage describes where an uploaded image ended up
type StoredImage struct {
	Path string // Storage specific reference, used for deletion
	URL  string // Publicly reachable URL
}

// ImageStore defines the interface for event image storage
type ImageStore interface {
	// Save stores the uploaded image under folder
	Save(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (*StoredImage, error)

	// Delete removes a previously stored image. Missing images are not an error.
	Delete(ctx context.Context, path string) error
}

// ValidateImage checks the size and extension of an uploaded image
func ValidateImage(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil {
		return apperrors.NewValidationError("image", "image is required")
	}
	if fileHeader.Size > MaxImageSize {
		return apperrors.NewValidationError("image", "image must be at most 5MB")
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		return apperrors.NewValidationError("image", "image must be a jpg, png, gif or webp file")
	}
	return nil
}
