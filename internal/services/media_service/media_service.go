package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/lib/logger/sl"
	"contractor_site/internal/metrics"
	"contractor_site/internal/repository"
	"contractor_site/internal/storage"
	"contractor_site/internal/storage/filestorage"

	"github.com/google/uuid"
)

const DefaultMaxUploadSize = 20 << 20

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type MediaService struct {
	log         *slog.Logger
	repo        repository.UploadRepository
	fileStorage filestorage.FileStorage
	compress    CompressOptions
	maxSize     int64
}

func NewMediaService(log *slog.Logger, repo repository.UploadRepository, fileStorage filestorage.FileStorage, compress CompressOptions, maxSize int64) *MediaService {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	return &MediaService{
		log:         log,
		repo:        repo,
		fileStorage: fileStorage,
		compress:    compress,
		maxSize:     maxSize,
	}
}

// UploadImage compresses an uploaded image, stores it under folder and
// records it. The stored file is removed if the record cannot be written.
func (s *MediaService) UploadImage(ctx context.Context, uploaderID uuid.UUID, file *multipart.FileHeader, folder string) (upload *models.Upload, err error) {
	const op = "media_service.UploadImage"

	log := s.log.With(
		slog.String("op", op),
		slog.String("filename", file.Filename),
		slog.Int64("size", file.Size),
	)

	defer func() {
		metrics.UploadsTotal.WithLabelValues(s.fileStorage.Kind(), metrics.Result(err)).Inc()
	}()

	if file.Size > s.maxSize {
		log.Warn("file too large")
		return nil, fmt.Errorf("%s: %w", op, storage.ErrFileTooLarge)
	}

	src, err := file.Open()
	if err != nil {
		log.Error("failed to open upload", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer src.Close()

	raw, err := io.ReadAll(io.LimitReader(src, s.maxSize+1))
	if err != nil {
		log.Error("failed to read upload", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if int64(len(raw)) > s.maxSize {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrFileTooLarge)
	}

	sniffed := http.DetectContentType(raw)
	if !allowedTypes[sniffed] {
		log.Warn("rejected file type", slog.String("mime", sniffed))
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidFileType)
	}

	img, err := Compress(bytes.NewReader(raw), s.compress)
	if err != nil {
		if errors.Is(err, ErrUnsupportedImage) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidFileType)
		}
		log.Error("failed to compress image", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	objectPath := path.Join(folder, uploaderID.String(), uuid.NewString()+img.Ext)

	obj, err := s.fileStorage.Put(ctx, objectPath, bytes.NewReader(img.Data), int64(len(img.Data)), img.ContentType)
	if err != nil {
		log.Error("failed to save file", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	upload = models.NewUpload(uploaderID, file.Filename, obj.Path, obj.URL, obj.Size)
	upload.MimeType = img.ContentType
	upload.Width = img.Width
	upload.Height = img.Height

	if err := upload.Validate(); err != nil {
		_ = s.fileStorage.Delete(ctx, obj.Path)
		log.Error("upload validation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.CreateUpload(ctx, upload); err != nil {
		_ = s.fileStorage.Delete(ctx, obj.Path)
		log.Error("failed to save upload to database", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("image uploaded",
		slog.String("path", obj.Path),
		slog.Int64("stored_size", obj.Size),
		slog.Int("quality", img.Quality),
	)

	return upload, nil
}
