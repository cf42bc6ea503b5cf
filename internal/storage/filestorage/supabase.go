package filestorage

import (
	"context"
	"fmt"
	"io"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseFileStorage keeps objects in a public Supabase Storage bucket.
type SupabaseFileStorage struct {
	client  *storage_go.Client
	bucket  string
	baseURL string
}

func NewSupabaseFileStorage(supabaseURL, serviceKey, bucket string) *SupabaseFileStorage {
	baseURL := strings.TrimRight(supabaseURL, "/")

	return &SupabaseFileStorage{
		client:  storage_go.NewClient(baseURL+"/storage/v1", serviceKey, nil),
		bucket:  bucket,
		baseURL: baseURL,
	}
}

func (s *SupabaseFileStorage) Put(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	key := CleanPath(objectPath)
	upsert := true
	counter := &countingReader{r: r}

	_, err := s.client.UploadFile(s.bucket, key, counter, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload file: %w", err)
	}

	if size <= 0 {
		size = counter.n
	}

	return Object{Path: key, URL: s.PublicURL(key), Size: size}, nil
}

func (s *SupabaseFileStorage) Delete(ctx context.Context, objectPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.client.RemoveFile(s.bucket, []string{CleanPath(objectPath)})
	return err
}

func (s *SupabaseFileStorage) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, CleanPath(objectPath))
}

func (s *SupabaseFileStorage) Kind() string { return KindSupabase }

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
