package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Upload records one stored image file.
type Upload struct {
	ID               uuid.UUID `json:"id" db:"id"`
	UploaderID       uuid.UUID `json:"uploader_id" db:"uploader_id"`
	OriginalFilename string    `json:"original_filename" db:"original_filename"`
	StoragePath      string    `json:"storage_path" db:"storage_path"`
	PublicURL        string    `json:"public_url" db:"public_url"`
	FileSize         int64     `json:"file_size" db:"file_size"`
	MimeType         string    `json:"mime_type" db:"mime_type"`
	Width            int       `json:"width" db:"width"`
	Height           int       `json:"height" db:"height"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

func NewUpload(uploaderID uuid.UUID, filename, path, url string, size int64) *Upload {
	return &Upload{
		ID:               uuid.New(),
		UploaderID:       uploaderID,
		OriginalFilename: filename,
		StoragePath:      path,
		PublicURL:        url,
		FileSize:         size,
		CreatedAt:        time.Now().UTC(),
	}
}

// Validate checks the record before it is written.
func (u *Upload) Validate() error {
	var validationErrors []string

	if u.UploaderID == uuid.Nil {
		validationErrors = append(validationErrors, "uploader ID is required")
	}
	if u.OriginalFilename == "" {
		validationErrors = append(validationErrors, "original filename is required")
	}
	if len(u.OriginalFilename) > 255 {
		validationErrors = append(validationErrors, "original filename must be 255 characters or less")
	}
	if u.StoragePath == "" {
		validationErrors = append(validationErrors, "storage path is required")
	}
	if u.PublicURL == "" {
		validationErrors = append(validationErrors, "public url is required")
	}
	if u.FileSize <= 0 {
		validationErrors = append(validationErrors, "file size must be positive")
	}
	if u.Width <= 0 || u.Height <= 0 {
		validationErrors = append(validationErrors, "width and height must be positive values")
	}

	if len(validationErrors) > 0 {
		return &UploadValidationError{Errors: validationErrors}
	}

	return nil
}

type UploadValidationError struct {
	Errors []string
}

func (e *UploadValidationError) Error() string {
	return fmt.Sprintf("upload validation failed: %s", strings.Join(e.Errors, "; "))
}
