package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no object exists for a public id.
var ErrNotFound = errors.New("object not found")

// Object describes an uploaded file.
type Object struct {
	PublicID  string
	URL       string
	SizeBytes int64
	MimeType  string
}

// FileStore uploads, fetches and deletes binary objects addressed by a stable public id.
type FileStore interface {
	Upload(ctx context.Context, folder, fileName string, r io.Reader) (Object, error)
	// Delete reports whether an object was removed. Deleting a missing object is not an error.
	Delete(ctx context.Context, publicID string) (bool, error)
	FetchBytes(ctx context.Context, publicID string) ([]byte, error)
	Open(ctx context.Context, publicID string) (io.ReadCloser, error)
}
