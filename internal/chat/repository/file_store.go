package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"realtime_chat_service/pkg/database"
)

// FileStore persists one uploaded file and returns its public URL
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// LocalFileStore keeps uploads on the local disk, served under /uploads
type LocalFileStore struct {
	Dir string
}

// NewLocalFileStore create the upload directory when absent
func NewLocalFileStore(dir string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalFileStore{Dir: dir}, nil
}

// Save write the file under Dir; the url is the static /uploads path
func (s *LocalFileStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	name = filepath.Base(name)

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return "/uploads/" + name, nil
}

// MinIOFileStore stores uploads in a minio bucket
type MinIOFileStore struct {
	client *database.MinIOClient
}

// presigned download links stay valid for a week
const minioURLExpiry = 7 * 24 * time.Hour

// NewMinIOFileStore wrap an established minio client
func NewMinIOFileStore(client *database.MinIOClient) *MinIOFileStore {
	return &MinIOFileStore{client: client}
}

// Save stream the file into the bucket and presign a download URL
func (s *MinIOFileStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	name = filepath.Base(name)

	if err := s.client.PutObject(ctx, name, r, size, contentType); err != nil {
		return "", fmt.Errorf("minio put object: %w", err)
	}

	return s.client.PresignGetURL(ctx, name, minioURLExpiry)
}
