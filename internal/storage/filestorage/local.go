package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type LocalFileStorage struct {
	baseDir string
	baseURL string
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

func (s *LocalFileStorage) Put(ctx context.Context, objectPath string, r io.Reader, _ int64, _ string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	key := CleanPath(objectPath)
	filePath := s.GetFullPath(key)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return Object{}, fmt.Errorf("failed to create directories: %w", err)
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return Object{}, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var size int64
	var copyErr error

	go func() {
		size, copyErr = io.Copy(dst, r)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return Object{}, fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		_ = os.Remove(filePath)
		return Object{}, ctx.Err()
	}

	return Object{Path: key, URL: s.PublicURL(key), Size: size}, nil
}

func (s *LocalFileStorage) Delete(_ context.Context, objectPath string) error {
	return os.Remove(s.GetFullPath(objectPath))
}

// GetFullPath is the on-disk location of objectPath.
func (s *LocalFileStorage) GetFullPath(objectPath string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(CleanPath(objectPath)))
}

func (s *LocalFileStorage) PublicURL(objectPath string) string {
	return joinURL(s.baseURL, objectPath)
}

func (s *LocalFileStorage) BaseDir() string { return s.baseDir }

func (s *LocalFileStorage) Kind() string { return KindLocal }
