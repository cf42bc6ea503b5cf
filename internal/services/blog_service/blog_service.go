package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/lib/logger/sl"
	"contractor_site/internal/repository"
	"contractor_site/internal/services/changefeed"
	"contractor_site/internal/services/content"
	"contractor_site/internal/storage"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"
)

var (
	ErrPostNotFound  = errors.New("blog post not found")
	ErrInvalidPost   = errors.New("invalid blog post")
	ErrInvalidStatus = errors.New("invalid post status")
	ErrSlugTaken     = errors.New("slug is already taken")
)

const (
	publicCacheKey  = "blog:public"
	slugRetries     = 5
	repoPageSize    = 100
	defaultPageSize = 20
)

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

type Publisher interface {
	Publish(ctx context.Context, c changefeed.Change) error
}

type BlogService struct {
	log      *slog.Logger
	repo     repository.BlogRepository
	renderer *content.Renderer
	events   Publisher
	fallback []models.BlogPost
	cache    *cache.Cache
	now      func() time.Time
}

func NewBlogService(log *slog.Logger, repo repository.BlogRepository, renderer *content.Renderer, events Publisher, fallback []models.BlogPost, ttl time.Duration) *BlogService {
	return &BlogService{
		log:      log,
		repo:     repo,
		renderer: renderer,
		events:   events,
		fallback: fallback,
		cache:    cache.New(ttl, 2*ttl),
		now:      time.Now,
	}
}

// LoadFallback reads the bundled post list. A missing file yields no posts.
// Posts without a status are treated as published.
func LoadFallback(path string) ([]models.BlogPost, error) {
	const op = "service.blog.LoadFallback"

	if path == "" {
		return []models.BlogPost{}, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.BlogPost{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var file struct {
		Posts []models.BlogPost `yaml:"posts"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	posts := make([]models.BlogPost, 0, len(file.Posts))
	for _, p := range file.Posts {
		if p.Slug == "" {
			p.Slug = GenerateSlug(p.Title)
		}
		if p.Slug == "" {
			continue
		}
		if p.Status == "" {
			p.Status = models.PostStatusPublished
		}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		posts = append(posts, p)
	}

	return posts, nil
}

// PublicPost is a published post with its body rendered for display.
type PublicPost struct {
	models.BlogPost
	Rendered content.Rendered `json:"rendered"`
}

// ListPublic returns published posts from the database and the fallback list,
// newest first. category filters when non-empty.
func (s *BlogService) ListPublic(ctx context.Context, category string) ([]models.BlogPost, error) {
	const op = "service.BlogService.ListPublic"

	log := s.log.With(slog.String("op", op))

	posts, err := s.publicPosts(ctx)
	if err != nil {
		log.Error("failed to load posts", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if category == "" {
		return posts, nil
	}

	filtered := make([]models.BlogPost, 0, len(posts))
	for _, p := range posts {
		if strings.EqualFold(p.Category, category) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// GetPublicPost finds a published post by slug and renders it.
func (s *BlogService) GetPublicPost(ctx context.Context, slug string) (PublicPost, error) {
	const op = "service.BlogService.GetPublicPost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", slug),
	)

	posts, err := s.publicPosts(ctx)
	if err != nil {
		log.Error("failed to load posts", sl.Err(err))
		return PublicPost{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, p := range posts {
		if p.Slug != slug {
			continue
		}
		rendered := s.renderer.Render(p.Content)
		if p.ReadTime <= 0 {
			p.ReadTime = rendered.ReadMinutes
		}
		return PublicPost{BlogPost: p, Rendered: rendered}, nil
	}

	return PublicPost{}, fmt.Errorf("%s: %w", op, ErrPostNotFound)
}

func (s *BlogService) InvalidateCache() {
	s.cache.Flush()
}

func (s *BlogService) publicPosts(ctx context.Context) ([]models.BlogPost, error) {
	if cached, ok := s.cache.Get(publicCacheKey); ok {
		return cached.([]models.BlogPost), nil
	}

	stored, err := s.allStored(ctx)
	if err != nil {
		return nil, err
	}

	posts := mergePublished(stored, s.fallback)
	s.cache.SetDefault(publicCacheKey, posts)

	return posts, nil
}

func (s *BlogService) allStored(ctx context.Context) ([]models.BlogPost, error) {
	var all []models.BlogPost
	for page := 1; ; page++ {
		posts, total, err := s.repo.GetBlogPosts(ctx, "all", page, repoPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, posts...)
		if len(posts) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

// mergePublished lets a stored post shadow the fallback post with the same
// slug whatever its status, then keeps only published posts.
func mergePublished(stored, fallback []models.BlogPost) []models.BlogPost {
	seen := make(map[string]bool, len(stored))
	out := make([]models.BlogPost, 0, len(stored)+len(fallback))

	for _, p := range stored {
		seen[p.Slug] = true
		if p.IsPublished() {
			out = append(out, p)
		}
	}
	for _, p := range fallback {
		if !seen[p.Slug] && p.IsPublished() {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return postDate(out[i]).After(postDate(out[j]))
	})
	return out
}

func postDate(p models.BlogPost) time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// PostInput is an admin create.
type PostInput struct {
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	Author        string
	Category      string
	Tags          []string
	FeaturedImage string
	Featured      bool
	Status        string
}

// PostUpdate changes only the non-nil fields.
type PostUpdate struct {
	Title         *string
	Slug          *string
	Excerpt       *string
	Content       *string
	Author        *string
	Category      *string
	Tags          *[]string
	FeaturedImage *string
	Featured      *bool
}

func (s *BlogService) CreatePost(ctx context.Context, in PostInput) (models.BlogPost, error) {
	const op = "service.BlogService.CreatePost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", in.Title),
	)

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.BlogPost{}, fmt.Errorf("%s: %w: title is required", op, ErrInvalidPost)
	}

	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !validStatus(status) {
		return models.BlogPost{}, fmt.Errorf("%s: %w", op, ErrInvalidStatus)
	}

	base := GenerateSlug(in.Slug)
	if base == "" {
		base = GenerateSlug(title)
	}
	if base == "" {
		return models.BlogPost{}, fmt.Errorf("%s: %w: title has no usable characters", op, ErrInvalidPost)
	}

	post := models.BlogPost{
		Title:         title,
		Excerpt:       strings.TrimSpace(in.Excerpt),
		Content:       in.Content,
		Author:        strings.TrimSpace(in.Author),
		Category:      strings.TrimSpace(in.Category),
		Tags:          cleanTags(in.Tags),
		FeaturedImage: strings.TrimSpace(in.FeaturedImage),
		ReadTime:      s.renderer.Render(in.Content).ReadMinutes,
		Featured:      in.Featured,
		Status:        status,
	}
	if status == models.PostStatusPublished {
		now := s.now()
		post.PublishedAt = &now
	}

	var id uuid.UUID
	var err error
	for attempt := 0; attempt <= slugRetries; attempt++ {
		post.Slug = slugCandidate(base, attempt)
		id, err = s.repo.SaveBlogPost(ctx, post)
		if !errors.Is(err, storage.ErrSlugExists) {
			break
		}
		log.Debug("slug taken, retrying", slog.String("slug", post.Slug))
	}
	if err != nil {
		if errors.Is(err, storage.ErrSlugExists) {
			return models.BlogPost{}, fmt.Errorf("%s: %w", op, ErrSlugTaken)
		}
		log.Error("failed to create post", sl.Err(err))
		return models.BlogPost{}, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := s.repo.GetBlogPostByID(ctx, id)
	if err != nil {
		log.Error("failed to load created post", sl.Err(err))
		return models.BlogPost{}, fmt.Errorf("%s: %w", op, err)
	}

	s.changed(ctx, changefeed.OpInsert, id)
	log.Info("post created", slog.String("post_id", id.String()), slog.String("slug", saved.Slug))

	return saved, nil
}

func (s *BlogService) UpdatePost(ctx context.Context, postID uuid.UUID, in PostUpdate) (models.BlogPost, error) {
	const op = "service.BlogService.UpdatePost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", postID.String()),
	)

	updates := make(map[string]interface{})
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return models.BlogPost{}, fmt.Errorf("%s: %w: title is required", op, ErrInvalidPost)
		}
		updates["title"] = title
	}
	if in.Slug != nil {
		slug := GenerateSlug(*in.Slug)
		if slug == "" {
			return models.BlogPost{}, fmt.Errorf("%s: %w: slug is empty", op, ErrInvalidPost)
		}
		updates["slug"] = slug
	}
	if in.Excerpt != nil {
		updates["excerpt"] = strings.TrimSpace(*in.Excerpt)
	}
	if in.Content != nil {
		updates["content"] = *in.Content
		updates["read_time"] = s.renderer.Render(*in.Content).ReadMinutes
	}
	if in.Author != nil {
		updates["author"] = strings.TrimSpace(*in.Author)
	}
	if in.Category != nil {
		updates["category"] = strings.TrimSpace(*in.Category)
	}
	if in.Tags != nil {
		updates["tags"] = cleanTags(*in.Tags)
	}
	if in.FeaturedImage != nil {
		updates["featured_image"] = strings.TrimSpace(*in.FeaturedImage)
	}
	if in.Featured != nil {
		updates["featured"] = *in.Featured
	}

	if len(updates) == 0 {
		return s.GetPost(ctx, postID)
	}

	if err := s.repo.UpdateBlogPostFields(ctx, postID, updates); err != nil {
		return models.BlogPost{}, s.mapErr(log, op, "failed to update post", err)
	}

	s.changed(ctx, changefeed.OpUpdate, postID)
	log.Info("post updated", slog.Int("fields", len(updates)))

	return s.GetPost(ctx, postID)
}

func (s *BlogService) GetPost(ctx context.Context, postID uuid.UUID) (models.BlogPost, error) {
	const op = "service.BlogService.GetPost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", postID.String()),
	)

	post, err := s.repo.GetBlogPostByID(ctx, postID)
	if err != nil {
		return models.BlogPost{}, s.mapErr(log, op, "failed to get post", err)
	}
	return post, nil
}

// ListPosts is the admin listing. status is draft, published, archived or
// empty for all.
func (s *BlogService) ListPosts(ctx context.Context, status string, page, perPage int) ([]models.BlogPost, int, error) {
	const op = "service.BlogService.ListPosts"

	log := s.log.With(
		slog.String("op", op),
		slog.String("status", status),
		slog.Int("page", page),
	)

	if status != "" && status != "all" && !validStatus(status) {
		return nil, 0, fmt.Errorf("%s: %w", op, ErrInvalidStatus)
	}
	if perPage <= 0 {
		perPage = defaultPageSize
	}

	posts, total, err := s.repo.GetBlogPosts(ctx, status, page, perPage)
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}

	return posts, total, nil
}

// PublishPost keeps the first publish date when a post is republished.
func (s *BlogService) PublishPost(ctx context.Context, postID uuid.UUID) (models.BlogPost, error) {
	const op = "service.BlogService.PublishPost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", postID.String()),
	)

	post, err := s.repo.GetBlogPostByID(ctx, postID)
	if err != nil {
		return models.BlogPost{}, s.mapErr(log, op, "failed to get post", err)
	}

	updates := map[string]interface{}{"status": models.PostStatusPublished}
	if post.PublishedAt == nil {
		updates["published_at"] = s.now()
	}

	if err := s.repo.UpdateBlogPostFields(ctx, postID, updates); err != nil {
		return models.BlogPost{}, s.mapErr(log, op, "failed to publish post", err)
	}

	s.changed(ctx, changefeed.OpUpdate, postID)
	log.Info("post published")

	return s.GetPost(ctx, postID)
}

func (s *BlogService) ArchivePost(ctx context.Context, postID uuid.UUID) (models.BlogPost, error) {
	const op = "service.BlogService.ArchivePost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", postID.String()),
	)

	err := s.repo.UpdateBlogPostFields(ctx, postID, map[string]interface{}{"status": models.PostStatusArchived})
	if err != nil {
		return models.BlogPost{}, s.mapErr(log, op, "failed to archive post", err)
	}

	s.changed(ctx, changefeed.OpUpdate, postID)
	log.Info("post archived")

	return s.GetPost(ctx, postID)
}

func (s *BlogService) DeletePost(ctx context.Context, postID uuid.UUID) error {
	const op = "service.BlogService.DeletePost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", postID.String()),
	)

	if err := s.repo.DeleteBlogPost(ctx, postID); err != nil {
		return s.mapErr(log, op, "failed to delete post", err)
	}

	s.changed(ctx, changefeed.OpDelete, postID)
	log.Info("post deleted")

	return nil
}

func (s *BlogService) mapErr(log *slog.Logger, op, msg string, err error) error {
	switch {
	case errors.Is(err, storage.ErrPostNotFound):
		log.Warn("post not found")
		return fmt.Errorf("%s: %w", op, ErrPostNotFound)
	case errors.Is(err, storage.ErrSlugExists):
		return fmt.Errorf("%s: %w", op, ErrSlugTaken)
	}
	log.Error(msg, sl.Err(err))
	return fmt.Errorf("%s: %w", op, err)
}

func (s *BlogService) changed(ctx context.Context, changeOp string, id uuid.UUID) {
	s.cache.Flush()

	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, changefeed.Change{Table: changefeed.TableBlogPosts, Op: changeOp, ID: id})
	if err != nil {
		s.log.Warn("failed to publish change", slog.String("table", changefeed.TableBlogPosts), sl.Err(err))
	}
}

// GenerateSlug lowercases s and joins its alphanumeric runs with dashes.
func GenerateSlug(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = strings.ReplaceAll(slug, "'", "")
	slug = slugUnsafe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func slugCandidate(base string, attempt int) string {
	switch {
	case attempt == 0:
		return base
	case attempt < slugRetries:
		return fmt.Sprintf("%s-%d", base, attempt+1)
	}
	return fmt.Sprintf("%s-%d", base, time.Now().UnixNano())
}

func validStatus(status string) bool {
	switch status {
	case models.PostStatusDraft, models.PostStatusPublished, models.PostStatusArchived:
		return true
	}
	return false
}

func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
