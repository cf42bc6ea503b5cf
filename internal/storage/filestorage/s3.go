package filestorage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3FileStorage keeps objects in any S3-compatible bucket.
type S3FileStorage struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

func NewS3FileStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool, publicBaseURL string) (*S3FileStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	if publicBaseURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s/%s", scheme, strings.TrimRight(endpoint, "/"), bucket)
	}

	return &S3FileStorage{
		client:        client,
		bucket:        bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (s *S3FileStorage) Put(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) (Object, error) {
	key := CleanPath(objectPath)
	if size <= 0 {
		size = -1
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to put object: %w", err)
	}

	return Object{Path: key, URL: s.PublicURL(key), Size: info.Size}, nil
}

func (s *S3FileStorage) Delete(ctx context.Context, objectPath string) error {
	return s.client.RemoveObject(ctx, s.bucket, CleanPath(objectPath), minio.RemoveObjectOptions{})
}

func (s *S3FileStorage) PublicURL(objectPath string) string {
	return joinURL(s.publicBaseURL, objectPath)
}

func (s *S3FileStorage) Kind() string { return KindS3 }
