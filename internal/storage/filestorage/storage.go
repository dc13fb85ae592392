package storage

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	apperrors "showcase/internal/storage"
)

// FileStorage is the media store: a directory-backed blob store keyed by
// the generated filename.
type FileStorage interface {
	Save(ctx context.Context, file *multipart.FileHeader, fieldName string) (storedName string, fileSize int64, err error)
	Delete(ctx context.Context, storedName string) error
	PublicURL(storedName string) string
	GetFullPath(storedName string) string
	BaseURL() string
	GetBaseDir() string
}

// LocalFileStorage keeps uploads in a flat local directory and serves them
// from a fixed base URL.
type LocalFileStorage struct {
	baseDir string // e.g. "./uploads"
	baseURL string // e.g. "http://localhost:5000"
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: baseURL,
	}, nil
}

// Save streams one multipart file part to disk under a generated name of the
// form <fieldName>-<unix-millis>-<random><ext>. Uniqueness comes from the
// timestamp-plus-random suffix; there is no collision check.
func (s *LocalFileStorage) Save(ctx context.Context, file *multipart.FileHeader, fieldName string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	storedName := uniqueName(fieldName, file.Filename)
	filePath := filepath.Join(s.baseDir, storedName)

	src, err := file.Open()
	if err != nil {
		return "", 0, fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(filePath)
		return "", 0, fmt.Errorf("failed to copy file: %w", err)
	}

	return storedName, size, nil
}

// Delete removes a stored file by name.
func (s *LocalFileStorage) Delete(ctx context.Context, storedName string) error {
	fullPath := filepath.Join(s.baseDir, storedName)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", storedName, apperrors.ErrFileNotFound)
		}
		return err
	}

	return nil
}

// PublicURL builds the externally resolvable address of a stored file.
func (s *LocalFileStorage) PublicURL(storedName string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, storedName)
}

// GetFullPath returns the on-disk path of a stored file.
func (s *LocalFileStorage) GetFullPath(storedName string) string {
	return filepath.Join(s.baseDir, storedName)
}

func (s *LocalFileStorage) BaseURL() string {
	return s.baseURL
}

func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}

func uniqueName(fieldName, originalName string) string {
	suffix := fmt.Sprintf("%d-%d", time.Now().UnixMilli(), rand.Int63n(1e9))
	return fieldName + "-" + suffix + filepath.Ext(originalName)
}
