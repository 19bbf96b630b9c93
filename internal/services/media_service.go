package services

import (
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/globetrotterhq/globetrotter-backend/internal/config"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/google/uuid"
)

// Upload purposes; each gets its own directory under the upload root.
const (
	PurposeAvatar    = "avatars"
	PurposeTripCover = "trip-covers"
)

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// MediaService stores uploaded images under opaque names and returns the
// relative URL path persisted on the owning entity.
type MediaService struct {
	dir      string
	maxBytes int64
}

func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{dir: cfg.UploadDir, maxBytes: cfg.MaxUploadBytes}
}

// ValidateUpload enforces the upload policy: image content type and a size
// of at most maxBytes. Exactly at the limit is allowed.
func ValidateUpload(contentType string, size, maxBytes int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return httperr.Validation("only image uploads are supported")
	}
	if size > maxBytes {
		return httperr.TooLarge("upload exceeds the maximum allowed size")
	}
	return nil
}

func (s *MediaService) Save(fh *multipart.FileHeader, purpose string) (string, error) {
	contentType := fh.Header.Get("Content-Type")
	if err := ValidateUpload(contentType, fh.Size, s.maxBytes); err != nil {
		return "", err
	}

	ext, ok := extByContentType[contentType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(fh.Filename))
		if ext == "" {
			ext = ".jpg"
		}
	}

	// The generated name is the only uniqueness guarantee the media
	// directory has; nothing derived from the client filename is used.
	name := uuid.NewString() + ext

	destDir := filepath.Join(s.dir, purpose)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", httperr.Internal(err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", httperr.Internal(err)
	}
	defer src.Close()

	destPath := filepath.Join(destDir, name)
	dst, err := os.Create(destPath)
	if err != nil {
		return "", httperr.Internal(err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(destPath)
		return "", httperr.Internal(err)
	}

	return "/uploads/" + purpose + "/" + name, nil
}

// Remove deletes the stored file for a previously returned URL path.
// Missing files are ignored; the owning row is already gone.
func (s *MediaService) Remove(urlPath string) {
	rel, ok := strings.CutPrefix(urlPath, "/uploads/")
	if !ok || rel == "" {
		return
	}
	// Reject anything that escapes the upload root.
	clean := path.Clean(rel)
	if strings.HasPrefix(clean, "..") {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(clean))); err != nil && !os.IsNotExist(err) {
		slog.Error("failed to remove media file", "path", urlPath, "error", err)
	}
}
