package repository

import (
	"context"
	"fmt"

	"contractor_site/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
)

type UploadRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewUploadRepository(db *pgxpool.Pool) *UploadRepo {
	return &UploadRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *UploadRepo) CreateUpload(ctx context.Context, upload *models.Upload) error {
	const op = "repository.UploadRepo.CreateUpload"

	if err := upload.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Insert("uploads").
		Columns(
			"id",
			"uploader_id",
			"original_filename",
			"storage_path",
			"public_url",
			"file_size",
			"mime_type",
			"width",
			"height",
			"created_at",
		).
		Values(
			upload.ID,
			upload.UploaderID,
			upload.OriginalFilename,
			upload.StoragePath,
			upload.PublicURL,
			upload.FileSize,
			upload.MimeType,
			upload.Width,
			upload.Height,
			upload.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
