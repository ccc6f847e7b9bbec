package image

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/school-directory/internal/domain"
	"github.com/school-directory/internal/logger"
	"github.com/school-directory/internal/pkg/id"
	"go.uber.org/zap"
)

// DefaultMaxBytes caps a single upload at 5 MiB.
const DefaultMaxBytes = 5 << 20

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// ObjectStore is implemented by the S3 and Cloudinary adapters.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

// deleter is implemented by stores that can remove an object again.
type deleter interface {
	Delete(ctx context.Context, key string) error
}

type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type Service interface {
	Upload(ctx context.Context, input UploadInput) (*domain.Image, error)
}

type ServiceDeps struct {
	Store    ObjectStore
	Folder   string
	MaxBytes int64
}

type service struct {
	store    ObjectStore
	folder   string
	maxBytes int64
}

func NewService(d ServiceDeps) Service {
	s := &service{store: d.Store, folder: strings.Trim(d.Folder, "/"), maxBytes: d.MaxBytes}
	if s.folder == "" {
		s.folder = "school-images"
	}
	if s.maxBytes <= 0 {
		s.maxBytes = DefaultMaxBytes
	}
	return s
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*domain.Image, error) {
	if input.Reader == nil {
		return nil, fmt.Errorf("No file uploaded: %w", domain.ErrBadRequest)
	}
	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFromName(input.Filename)
	}
	if !allowedTypes[contentType] {
		return nil, fmt.Errorf("Invalid file type: %w", domain.ErrBadRequest)
	}
	if input.Size > s.maxBytes {
		return nil, fmt.Errorf("File too large: %w", domain.ErrBadRequest)
	}

	safeName := sanitizeFilename(input.Filename)
	key := fmt.Sprintf("%s/%s-%s", s.folder, id.New(), safeName)

	hasher := sha256.New()
	counter := &countingReader{r: io.LimitReader(input.Reader, s.maxBytes+1)}
	tee := io.TeeReader(counter, hasher)
	url, err := s.store.Upload(ctx, key, tee, contentType)
	if err != nil {
		logger.Error("image upload failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("Upload failed: %w: %w", domain.ErrUnavailable, err)
	}
	if counter.n > s.maxBytes {
		if d, ok := s.store.(deleter); ok {
			if err := d.Delete(ctx, key); err != nil {
				logger.Warn("remove oversized upload", zap.String("key", key), zap.Error(err))
			}
		}
		return nil, fmt.Errorf("File too large: %w", domain.ErrBadRequest)
	}
	return &domain.Image{
		FileName:    key,
		URL:         url,
		Size:        counter.n,
		ContentType: contentType,
		Hash:        hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func contentTypeFromName(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) so names cannot escape the key prefix.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." && result != ".." {
		return result
	}
	return "_"
}
