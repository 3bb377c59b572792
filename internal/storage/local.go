package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type localStore struct {
	dir string
}

// NewLocalStore writes payment proofs to a directory on disk. Used when
// Cloudinary credentials are absent, mainly in development.
func NewLocalStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) SavePaymentProof(ctx context.Context, bookingID, filename string, file io.Reader, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".pdf", ".webp":
	default:
		return "", fmt.Errorf("unsupported payment proof type %q", ext)
	}

	name := bookingID + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create payment proof file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, size)); err != nil {
		return "", fmt.Errorf("failed to write payment proof: %w", err)
	}
	return "/uploads/" + name, nil
}
