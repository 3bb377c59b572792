package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"cinebook/internal/shared/config"
)

type cloudinaryStore struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore uploads payment proofs to a Cloudinary folder, keyed by
// booking id so re-uploads overwrite the previous proof.
func NewCloudinaryStore(cfg *config.Config) (Store, error) {
	client, err := cloudinary.NewFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &cloudinaryStore{client: client, folder: cfg.Cloudinary.Folder}, nil
}

func (s *cloudinaryStore) SavePaymentProof(ctx context.Context, bookingID, filename string, file io.Reader, size int64) (string, error) {
	overwrite := true
	result, err := s.client.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:  path.Join(s.folder, bookingID),
		Overwrite: &overwrite,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload payment proof: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}
	return strings.TrimSpace(result.SecureURL), nil
}
