package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"jobtracker-backend/internal/shared/storage/object"
	"jobtracker-backend/internal/shared/util"
)

// Store implements FileStore on the local filesystem.
type Store struct {
	baseDir string
	baseURL string
}

// New creates a local file store rooted at baseDir. URLs are built from baseURL.
func New(baseDir, baseURL string) *Store {
	return &Store{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload writes r under folder with a random prefix and sniffs its content type.
func (s *Store) Upload(ctx context.Context, folder, fileName string, r io.Reader) (object.Object, error) {
	sanitizedName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return object.Object{}, fmt.Errorf("sanitize file name: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return object.Object{}, err
	}

	publicID := path.Join(strings.Trim(folder, "/"), uuid.NewString()+"_"+sanitizedName)
	fullPath, err := s.resolve(publicID)
	if err != nil {
		return object.Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return object.Object{}, fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return object.Object{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var sniff [512]byte
	n, readErr := io.ReadFull(r, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return object.Object{}, fmt.Errorf("read sniff: %w", readErr)
	}
	mimeType := http.DetectContentType(sniff[:n])

	if _, err := f.Write(sniff[:n]); err != nil {
		return object.Object{}, fmt.Errorf("write sniff: %w", err)
	}
	written, err := io.Copy(f, r)
	if err != nil {
		return object.Object{}, fmt.Errorf("write body: %w", err)
	}

	return object.Object{
		PublicID:  publicID,
		URL:       s.baseURL + "/" + publicID,
		SizeBytes: int64(n) + written,
		MimeType:  mimeType,
	}, nil
}

// Delete removes the object; it returns false when nothing was stored under publicID.
func (s *Store) Delete(ctx context.Context, publicID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fullPath, err := s.resolve(publicID)
	if err != nil {
		return false, err
	}
	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("remove file: %w", err)
	}
	return true, nil
}

// FetchBytes reads the whole object into memory.
func (s *Store) FetchBytes(ctx context.Context, publicID string) ([]byte, error) {
	rc, err := s.Open(ctx, publicID)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, publicID string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := s.resolve(publicID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, object.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *Store) resolve(publicID string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(publicID))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid public id %q", publicID)
	}
	return filepath.Join(s.baseDir, clean), nil
}

var _ object.FileStore = (*Store)(nil)
