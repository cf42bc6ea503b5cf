package services

import (
	"context"
	"log/slog"
	"mime/multipart"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/lib/logger/sl"

	"github.com/google/uuid"
)

const uploadFolder = "projects"

type ImageUploader interface {
	UploadImage(ctx context.Context, uploaderID uuid.UUID, file *multipart.FileHeader, folder string) (*models.Upload, error)
}

type ImageStatus string

const (
	StatusUploading ImageStatus = "uploading"
	StatusUploaded  ImageStatus = "uploaded"
)

// DraftImage is an image in the editor's unsaved list. While uploading it
// has only a preview key; once uploaded it carries the durable URL.
type DraftImage struct {
	Key          string           `json:"key"`
	URL          string           `json:"url,omitempty"`
	Filename     string           `json:"filename,omitempty"`
	ImageType    models.ImageType `json:"image_type"`
	DisplayOrder int              `json:"display_order"`
	Status       ImageStatus      `json:"status"`
}

type FailedUpload struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type UploadResult struct {
	Images []DraftImage   `json:"images"`
	Failed []FailedUpload `json:"failed"`
}

// UploadImages uploads files one at a time in the given order and appends
// them to draft as imageType. A failed file is dropped from the list and
// reported in Failed; the rest continue.
func (s *GalleryService) UploadImages(ctx context.Context, uploaderID uuid.UUID, draft []DraftImage, files []*multipart.FileHeader, imageType models.ImageType) UploadResult {
	const op = "service.GalleryService.UploadImages"

	log := s.log.With(
		slog.String("op", op),
		slog.String("image_type", string(imageType)),
		slog.Int("files", len(files)),
	)

	images := make([]DraftImage, len(draft), len(draft)+len(files))
	copy(images, draft)
	result := UploadResult{Failed: []FailedUpload{}}

	for _, f := range files {
		pending := DraftImage{
			Key:          "preview:" + uuid.NewString(),
			Filename:     f.Filename,
			ImageType:    imageType,
			DisplayOrder: nextImageOrder(images, imageType),
			Status:       StatusUploading,
		}
		images = append(images, pending)
		idx := len(images) - 1

		upload, err := s.uploader.UploadImage(ctx, uploaderID, f, uploadFolder)
		if err != nil {
			log.Warn("image upload failed", slog.String("filename", f.Filename), sl.Err(err))
			images = images[:idx]
			result.Failed = append(result.Failed, FailedUpload{Filename: f.Filename, Error: err.Error()})
			continue
		}

		images[idx].Key = upload.ID.String()
		images[idx].URL = upload.PublicURL
		images[idx].Status = StatusUploaded
	}

	result.Images = images
	log.Info("images uploaded", slog.Int("failed", len(result.Failed)))

	return result
}

func nextImageOrder(images []DraftImage, t models.ImageType) int {
	next := 0
	for _, img := range images {
		if img.ImageType == t && img.DisplayOrder >= next {
			next = img.DisplayOrder + 1
		}
	}
	return next
}
