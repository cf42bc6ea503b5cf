// Package filestorage stores uploaded gallery and blog images and hands back
// publicly retrievable URLs.
package filestorage

import (
	"context"
	"io"
	"path"
	"strings"
)

const (
	KindLocal    = "local"
	KindSupabase = "supabase"
	KindS3       = "s3"
)

// Object is a stored file.
type Object struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

type FileStorage interface {
	Put(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) (Object, error)
	Delete(ctx context.Context, objectPath string) error
	PublicURL(objectPath string) string
	Kind() string
}

// CleanPath normalizes an object key: forward slashes, no leading slash,
// no parent references.
func CleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

func joinURL(base, objectPath string) string {
	return strings.TrimRight(base, "/") + "/" + CleanPath(objectPath)
}
