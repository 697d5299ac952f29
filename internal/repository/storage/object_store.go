package storage

import (
	"context"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ObjectStore defines the interface for binary object storage (avatars, exports)
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// AvatarPath builds the object key for a user's avatar
func AvatarPath(userID uuid.UUID, ext string) string {
	return path.Join("avatars", userID.String(), uuid.New().String()+ext)
}

// ExportPath builds the object key for a generated export file
func ExportPath(userID uuid.UUID, filename string) string {
	return path.Join("exports", userID.String(), uuid.New().String(), filename)
}
