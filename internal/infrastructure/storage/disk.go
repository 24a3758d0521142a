// Package storage implements the image upload handler: multipart files are
// validated and written to a local upload directory, and the generated
// filenames are returned for the listing record to reference.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/estatehub/listings-api/internal/api/metrics"
	"github.com/estatehub/listings-api/internal/core/domain"
)

// Upload limits
const (
	MaxFileSize     = 5 * 1024 * 1024 // 5MB per file
	MaxGalleryFiles = 10
)

// allowedMimeTypes is the declared-type allow-list. Contents are not sniffed;
// a renamed file with a matching Content-Type header is admitted.
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// DiskStore writes uploaded images to a fixed directory on local disk.
type DiskStore struct {
	dir string
	log zerolog.Logger
}

// NewDiskStore creates the upload directory (and its thumbs/ subdirectory)
// if needed and returns a store rooted there.
func NewDiskStore(dir string, log zerolog.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "thumbs"), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, log: log}, nil
}

// Dir returns the root upload directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save validates and persists a single uploaded file, returning the
// generated filename.
func (s *DiskStore) Save(fh *multipart.FileHeader) (string, error) {
	name, err := s.save(fh)
	if err != nil {
		return "", err
	}
	metrics.UploadsTotal.WithLabelValues("main").Inc()
	return name, nil
}

func (s *DiskStore) save(fh *multipart.FileHeader) (string, error) {
	if err := s.validate(fh); err != nil {
		return "", err
	}

	name := generateFilename(fh.Filename)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}

	s.log.Debug().Str("filename", name).Int64("size", fh.Size).Msg("upload stored")
	return name, nil
}

// SaveAll persists a batch of gallery files, enforcing the per-request count
// limit. Files already written when a later one fails are left on disk but
// never referenced, the same orphaning behaviour as delete.
func (s *DiskStore) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	if len(files) > MaxGalleryFiles {
		metrics.UploadsRejectedTotal.WithLabelValues("too_many_files").Inc()
		return nil, domain.ErrTooManyFiles
	}

	names := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := s.save(fh)
		if err != nil {
			return nil, err
		}
		metrics.UploadsTotal.WithLabelValues("gallery").Inc()
		names = append(names, name)
	}
	return names, nil
}

func (s *DiskStore) validate(fh *multipart.FileHeader) error {
	if fh.Size > MaxFileSize {
		metrics.UploadsRejectedTotal.WithLabelValues("too_large").Inc()
		return domain.ErrFileTooLarge
	}
	if !allowedMimeTypes[fh.Header.Get("Content-Type")] {
		metrics.UploadsRejectedTotal.WithLabelValues("unsupported_type").Inc()
		return domain.ErrUnsupportedFileType
	}
	return nil
}

// generateFilename prefixes the sanitised original name with the current
// unix-millisecond timestamp. An unusable original name falls back to a UUID.
func generateFilename(original string) string {
	base := sanitizeFilename(filepath.Base(original))
	if base == "" || base == "." {
		base = uuid.New().String()
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), base)
}

// sanitizeFilename keeps letters, digits, dots, dashes and underscores;
// everything else becomes a dash.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), ".-")
}
