package filestorage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// CloudinaryStorage keeps event images on Cloudinary
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	tags   []string
	logger zerolog.Logger
}

// NewCloudinaryStorage creates a Cloudinary backed ImageStore
func NewCloudinaryStorage(cloudName, apiKey, apiSecret string, logger zerolog.Logger) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStorage{
		cld:    cld,
		tags:   []string{"volunteerhub", "event"},
		logger: logger,
	}, nil
}

// Save implements ImageStore. Path is the Cloudinary public id.
func (cs *CloudinaryStorage) Save(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (*StoredImage, error) {
	if err := ValidateImage(fileHeader); err != nil {
		return nil, err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	res, err := cs.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder: folder,
		Tags:   cs.tags,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return nil, errors.New("cloudinary upload: " + res.Error.Message)
	}

	cs.logger.Info().Str("filename", fileHeader.Filename).Str("public_id", res.PublicID).Msg("Image uploaded")
	return &StoredImage{Path: res.PublicID, URL: res.SecureURL}, nil
}

// Delete implements ImageStore
func (cs *CloudinaryStorage) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	res, err := cs.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return errors.New("cloudinary destroy: " + res.Error.Message)
	}
	// "not found" is reported as a result, not an error
	cs.logger.Info().Str("public_id", publicID).Str("result", res.Result).Msg("Image deleted")
	return nil
}
