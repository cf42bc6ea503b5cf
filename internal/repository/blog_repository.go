package repository

import (
	"context"
	"fmt"
	"time"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const blogTable = "blog_posts"

var blogColumns = []string{
	"id", "slug", "title", "excerpt", "content", "author", "category", "tags",
	"featured_image", "read_time", "featured", "status", "published_at", "updated_at", "created_at",
}

type BlogRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewBlogRepository(db *pgxpool.Pool) *BlogRepo {
	return &BlogRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (b *BlogRepo) SaveBlogPost(ctx context.Context, post models.BlogPost) (uuid.UUID, error) {
	const op = "repository.blog_repository.SaveBlogPost"

	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}

	query, args, err := b.sb.Insert(blogTable).
		Columns(
			"slug",
			"title",
			"excerpt",
			"content",
			"author",
			"category",
			"tags",
			"featured_image",
			"read_time",
			"featured",
			"status",
			"published_at",
		).
		Values(
			post.Slug,
			post.Title,
			post.Excerpt,
			post.Content,
			post.Author,
			post.Category,
			post.Tags,
			post.FeaturedImage,
			post.ReadTime,
			post.Featured,
			post.Status,
			post.PublishedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	err = b.db.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrSlugExists)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

var blogUpdatableFields = map[string]bool{
	"slug":           true,
	"title":          true,
	"excerpt":        true,
	"content":        true,
	"author":         true,
	"category":       true,
	"tags":           true,
	"featured_image": true,
	"read_time":      true,
	"featured":       true,
	"status":         true,
	"published_at":   true,
}

func (b *BlogRepo) UpdateBlogPostFields(ctx context.Context, postID uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.blog_repository.UpdateBlogPostFields"

	if len(updates) == 0 {
		return fmt.Errorf("%s: no fields to update", op)
	}

	updateBuilder := b.sb.Update(blogTable).
		Set("updated_at", time.Now().UTC())

	for field, value := range updates {
		if !blogUpdatableFields[field] {
			return fmt.Errorf("%s: field '%s' is not allowed for update", op, field)
		}

		updateBuilder = updateBuilder.Set(field, value)
	}

	query, args, err := updateBuilder.Where(sq.Eq{"id": postID}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := b.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrSlugExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	return nil
}

func (b *BlogRepo) DeleteBlogPost(ctx context.Context, postID uuid.UUID) error {
	const op = "repository.blog_repository.DeleteBlogPost"

	query, args, err := b.sb.Delete(blogTable).
		Where(sq.Eq{"id": postID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := b.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	return nil
}

func (b *BlogRepo) GetBlogPostByID(ctx context.Context, postID uuid.UUID) (models.BlogPost, error) {
	const op = "repository.blog_repository.GetBlogPostByID"

	return b.getOne(ctx, op, sq.Eq{"id": postID})
}

func (b *BlogRepo) GetBlogPostBySlug(ctx context.Context, slug string) (models.BlogPost, error) {
	const op = "repository.blog_repository.GetBlogPostBySlug"

	return b.getOne(ctx, op, sq.Eq{"slug": slug})
}

func (b *BlogRepo) getOne(ctx context.Context, op string, where sq.Eq) (models.BlogPost, error) {
	query, args, err := b.sb.Select(blogColumns...).
		From(blogTable).
		Where(where).
		ToSql()
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("%s: %w", op, err)
	}

	post, err := scanPost(b.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return models.BlogPost{}, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
		}
		return models.BlogPost{}, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

// GetBlogPosts pages through posts newest first. statusFilter is "all" or
// one of the post statuses; total counts rows matching the filter.
func (b *BlogRepo) GetBlogPosts(ctx context.Context, statusFilter string, page, perPage int) ([]models.BlogPost, int, error) {
	const op = "repository.blog_repository.GetBlogPosts"

	page, perPage = normalizePage(page, perPage)

	queryBuilder := b.sb.Select(blogColumns...).From(blogTable)
	countBuilder := b.sb.Select("COUNT(*)").From(blogTable)

	switch statusFilter {
	case models.PostStatusDraft, models.PostStatusPublished, models.PostStatusArchived:
		queryBuilder = queryBuilder.Where(sq.Eq{"status": statusFilter})
		countBuilder = countBuilder.Where(sq.Eq{"status": statusFilter})
	case "all", "":
	default:
		return nil, 0, fmt.Errorf("%s: invalid status filter '%s'", op, statusFilter)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var total int
	if err := b.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := queryBuilder.
		OrderBy("COALESCE(published_at, created_at) DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var posts []models.BlogPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return posts, total, nil
}

func scanPost(row pgx.Row) (models.BlogPost, error) {
	var post models.BlogPost
	err := row.Scan(
		&post.ID,
		&post.Slug,
		&post.Title,
		&post.Excerpt,
		&post.Content,
		&post.Author,
		&post.Category,
		&post.Tags,
		&post.FeaturedImage,
		&post.ReadTime,
		&post.Featured,
		&post.Status,
		&post.PublishedAt,
		&post.UpdatedAt,
		&post.CreatedAt,
	)
	return post, err
}
