package repository

import (
	"context"
	"fmt"
	"time"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/storage"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	projectsTable = "gallery_projects"
	imagesTable   = "gallery_project_images"
)

var projectColumns = []string{
	"id",
	"title",
	"category",
	"categories",
	"location",
	"description",
	"display_mode",
	"after_image_url",
	"before_image_url",
	"featured",
	"display_order",
	"created_at",
	"updated_at",
}

var imageColumns = []string{
	"id",
	"project_id",
	"image_url",
	"image_type",
	"display_order",
	"created_at",
}

type GalleryRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewGalleryRepo(db *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListProjects returns every project sorted by display_order, ties by
// creation time.
func (r *GalleryRepo) ListProjects(ctx context.Context) ([]models.GalleryProject, error) {
	const op = "repository.GalleryRepo.ListProjects"

	query, args, err := r.sb.Select(projectColumns...).
		From(projectsTable).
		OrderBy("display_order ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.queryProjects(ctx, op, query, args...)
}

func (r *GalleryRepo) queryProjects(ctx context.Context, op, query string, args ...interface{}) ([]models.GalleryProject, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var projects []models.GalleryProject
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return projects, nil
}

func (r *GalleryRepo) GetProject(ctx context.Context, id uuid.UUID) (models.GalleryProject, error) {
	const op = "repository.GalleryRepo.GetProject"

	query, args, err := r.sb.Select(projectColumns...).
		From(projectsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.GalleryProject{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := scanProject(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return models.GalleryProject{}, fmt.Errorf("%s: %w", op, storage.ErrProjectNotFound)
		}
		return models.GalleryProject{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (r *GalleryRepo) ListProjectImages(ctx context.Context, projectID uuid.UUID) ([]models.ProjectImage, error) {
	const op = "repository.GalleryRepo.ListProjectImages"

	query, args, err := r.sb.Select(imageColumns...).
		From(imagesTable).
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("image_type", "display_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.queryImages(ctx, op, query, args...)
}

func (r *GalleryRepo) ListAllImages(ctx context.Context) ([]models.ProjectImage, error) {
	const op = "repository.GalleryRepo.ListAllImages"

	query, args, err := r.sb.Select(imageColumns...).
		From(imagesTable).
		OrderBy("project_id", "image_type", "display_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.queryImages(ctx, op, query, args...)
}

func (r *GalleryRepo) queryImages(ctx context.Context, op, query string, args ...interface{}) ([]models.ProjectImage, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var images []models.ProjectImage
	for rows.Next() {
		var img models.ProjectImage
		if err := rows.Scan(
			&img.ID,
			&img.ProjectID,
			&img.ImageURL,
			&img.ImageType,
			&img.DisplayOrder,
			&img.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return images, nil
}

// SaveProject upserts the project row and replaces its whole image set in
// one transaction. The project's display_order is only written on insert;
// reorders own it afterwards.
func (r *GalleryRepo) SaveProject(ctx context.Context, project models.GalleryProject, images []models.ProjectImage) (models.GalleryProject, error) {
	const op = "repository.GalleryRepo.SaveProject"

	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if project.Categories == nil {
		project.Categories = []string{}
	}

	upsert, upsertArgs, err := r.sb.Insert(projectsTable).
		Columns(
			"id",
			"title",
			"category",
			"categories",
			"location",
			"description",
			"display_mode",
			"after_image_url",
			"before_image_url",
			"featured",
			"display_order",
		).
		Values(
			project.ID,
			project.Title,
			project.Category,
			project.Categories,
			project.Location,
			project.Description,
			string(project.DisplayMode),
			project.AfterImageURL,
			project.BeforeImageURL,
			project.Featured,
			project.DisplayOrder,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			categories = EXCLUDED.categories,
			location = EXCLUDED.location,
			description = EXCLUDED.description,
			display_mode = EXCLUDED.display_mode,
			after_image_url = EXCLUDED.after_image_url,
			before_image_url = EXCLUDED.before_image_url,
			featured = EXCLUDED.featured,
			updated_at = now()
			RETURNING display_order, created_at, updated_at`).
		ToSql()
	if err != nil {
		return models.GalleryProject{}, fmt.Errorf("%s: %w", op, err)
	}

	del, delArgs, err := r.sb.Delete(imagesTable).
		Where(squirrel.Eq{"project_id": project.ID}).
		ToSql()
	if err != nil {
		return models.GalleryProject{}, fmt.Errorf("%s: %w", op, err)
	}

	err = withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, upsert, upsertArgs...).Scan(
			&project.DisplayOrder,
			&project.CreatedAt,
			&project.UpdatedAt,
		); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, del, delArgs...); err != nil {
			return err
		}

		if len(images) == 0 {
			return nil
		}

		now := time.Now().UTC()
		ins := r.sb.Insert(imagesTable).Columns(imageColumns...)
		for _, img := range images {
			ins = ins.Values(uuid.New(), project.ID, img.ImageURL, string(img.ImageType), img.DisplayOrder, now)
		}

		query, args, err := ins.ToSql()
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, query, args...)
		return err
	})
	if err != nil {
		return models.GalleryProject{}, fmt.Errorf("%s: %w", op, err)
	}

	return project, nil
}

// UpdateDisplayOrders writes every update in one batched transaction. A
// missing id aborts the whole batch.
func (r *GalleryRepo) UpdateDisplayOrders(ctx context.Context, updates []models.OrderUpdate) error {
	const op = "repository.GalleryRepo.UpdateDisplayOrders"

	if len(updates) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, u := range updates {
		query, args, err := r.sb.Update(projectsTable).
			Set("display_order", u.DisplayOrder).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"id": u.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		batch.Queue(query, args...)
	}

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		br := tx.SendBatch(ctx, batch)
		for _, u := range updates {
			tag, err := br.Exec()
			if err != nil {
				br.Close()
				return err
			}
			if tag.RowsAffected() == 0 {
				br.Close()
				return fmt.Errorf("project %s: %w", u.ID, storage.ErrProjectNotFound)
			}
		}
		return br.Close()
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteProject removes the project; its images go with it via the
// foreign key.
func (r *GalleryRepo) DeleteProject(ctx context.Context, id uuid.UUID) error {
	const op = "repository.GalleryRepo.DeleteProject"

	query, args, err := r.sb.Delete(projectsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrProjectNotFound)
	}

	return nil
}

func (r *GalleryRepo) CountProjects(ctx context.Context) (int, error) {
	const op = "repository.GalleryRepo.CountProjects"

	query, args, err := r.sb.Select("COUNT(*)").From(projectsTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func scanProject(row pgx.Row) (models.GalleryProject, error) {
	var p models.GalleryProject
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Category,
		&p.Categories,
		&p.Location,
		&p.Description,
		&p.DisplayMode,
		&p.AfterImageURL,
		&p.BeforeImageURL,
		&p.Featured,
		&p.DisplayOrder,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
