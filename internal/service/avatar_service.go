package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/ledgerly/ledgerly-backend/internal/repository/storage"
)

const (
	MaxImageSize   = 5 * 1024 * 1024 // 5MB
	MinImageWidth  = 50
	MinImageHeight = 50
	MaxImageWidth  = 8000
	MaxImageHeight = 8000
	AvatarSize     = 256
	JPEGQuality    = 85
	AvatarURLTTL   = time.Hour
)

var (
	ErrImageTooLarge    = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat    = errors.New("invalid format. Supported: JPEG, PNG")
	ErrImageTooSmall    = errors.New("image too small. Minimum 50x50 pixels")
	ErrImageDimensions  = errors.New("image dimensions too large. Maximum 8000x8000 pixels")
	ErrInvalidImageData = errors.New("invalid image data")
)

// AllowedExtensions maps extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// AvatarService validates, resizes and stores profile pictures
type AvatarService struct {
	storage storage.ObjectStore
}

// NewAvatarService creates a new AvatarService; a nil store disables uploads
func NewAvatarService(store storage.ObjectStore) *AvatarService {
	return &AvatarService{storage: store}
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *AvatarService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// ValidateImage validates image format, size and dimensions
func (s *AvatarService) ValidateImage(data []byte, filename string) error {
	_, err := s.validateAndDecode(data, filename)
	return err
}

func (s *AvatarService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	// Check the header before decoding: pixel buffers are sized from it
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}
	if format != "jpeg" && format != "png" {
		return nil, ErrInvalidFormat
	}
	if cfg.Width < MinImageWidth || cfg.Height < MinImageHeight {
		return nil, ErrImageTooSmall
	}
	if cfg.Width > MaxImageWidth || cfg.Height > MaxImageHeight {
		return nil, ErrImageDimensions
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}
	return img, nil
}

// Upload crops the image to a square thumbnail, stores it and returns the object key
func (s *AvatarService) Upload(ctx context.Context, userID uuid.UUID, data []byte, filename string) (string, error) {
	if !s.IsEnabled() {
		return "", domain.ErrStorageNotConfigured
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return "", err
	}

	thumb := imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("failed to encode avatar: %w", err)
	}

	key := storage.AvatarPath(userID, ".jpg")
	if _, err := s.storage.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return key, nil
}

// URL returns a temporary link to a stored avatar
func (s *AvatarService) URL(ctx context.Context, key string) (string, error) {
	if !s.IsEnabled() || key == "" {
		return "", nil
	}
	return s.storage.GeneratePresignedURL(ctx, key, AvatarURLTTL)
}

// Delete removes a stored avatar
func (s *AvatarService) Delete(ctx context.Context, key string) error {
	if !s.IsEnabled() || key == "" {
		return nil
	}
	return s.storage.Delete(ctx, key)
}
