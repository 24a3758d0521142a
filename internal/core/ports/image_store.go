package ports

import (
	"context"
	"mime/multipart"
)

// ImageStore persists uploaded image files and hands back the generated
// filenames. Implementations validate the declared MIME type and size before
// writing; file contents are trusted to match the declared type.
type ImageStore interface {
	Save(file *multipart.FileHeader) (string, error)
	// SaveAll persists a batch of gallery files, enforcing the per-request
	// file count limit. On any failure nothing from the batch is recorded.
	SaveAll(files []*multipart.FileHeader) ([]string, error)
}

// ViewCounter tracks per-listing view counts.
type ViewCounter interface {
	Increment(ctx context.Context, id string) (int64, error)
}

// ThumbnailQueue accepts stored filenames for asynchronous thumbnail
// generation.
type ThumbnailQueue interface {
	Enqueue(filename string)
}
