package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"contractor_site/internal/domain/compare"
	"contractor_site/internal/domain/models"
	"contractor_site/internal/domain/ordering"
	"contractor_site/internal/lib/logger/sl"
	"contractor_site/internal/repository"
	"contractor_site/internal/services/changefeed"
	"contractor_site/internal/storage"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var (
	ErrProjectNotFound      = errors.New("gallery project not found")
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	ErrOrderMismatch        = errors.New("order must list every project exactly once")
	ErrNoComparison         = errors.New("project has no before image")
)

const publicCacheKey = "gallery:public"

type Publisher interface {
	Publish(ctx context.Context, c changefeed.Change) error
}

type GalleryService struct {
	log      *slog.Logger
	repo     repository.GalleryRepository
	uploader ImageUploader
	events   Publisher
	cache    *cache.Cache
}

func NewGalleryService(log *slog.Logger, repo repository.GalleryRepository, uploader ImageUploader, events Publisher, ttl time.Duration) *GalleryService {
	return &GalleryService{
		log:      log,
		repo:     repo,
		uploader: uploader,
		events:   events,
		cache:    cache.New(ttl, 2*ttl),
	}
}

// PublicProject is a project as the public gallery shows it.
type PublicProject struct {
	models.GalleryProject
	Thumbnail string                `json:"thumbnail"`
	Images    []models.ProjectImage `json:"images"`
}

// ProjectDetail is a project with its full image set, as loaded by the editor.
type ProjectDetail struct {
	Project models.GalleryProject `json:"project"`
	Images  []models.ProjectImage `json:"images"`
}

// ListPublic returns projects in display order, filtered by category. The
// full set is cached; filtering happens in memory.
func (s *GalleryService) ListPublic(ctx context.Context, category string) ([]PublicProject, error) {
	const op = "service.GalleryService.ListPublic"

	all, err := s.publicSet(ctx)
	if err != nil {
		s.log.Error("failed to load gallery", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]PublicProject, 0, len(all))
	for _, p := range all {
		if p.InCategory(category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *GalleryService) publicSet(ctx context.Context) ([]PublicProject, error) {
	if cached, ok := s.cache.Get(publicCacheKey); ok {
		return cached.([]PublicProject), nil
	}

	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	images, err := s.repo.ListAllImages(ctx)
	if err != nil {
		return nil, err
	}

	byProject := make(map[uuid.UUID][]models.ProjectImage, len(projects))
	for _, img := range images {
		byProject[img.ProjectID] = append(byProject[img.ProjectID], img)
	}

	models.SortProjects(projects)

	out := make([]PublicProject, len(projects))
	for i, p := range projects {
		imgs := byProject[p.ID]
		if imgs == nil {
			imgs = []models.ProjectImage{}
		}
		out[i] = PublicProject{
			GalleryProject: p,
			Thumbnail:      models.Thumbnail(p, imgs),
			Images:         imgs,
		}
	}

	s.cache.SetDefault(publicCacheKey, out)

	return out, nil
}

// InvalidateCache drops the cached public set.
func (s *GalleryService) InvalidateCache() {
	s.cache.Flush()
}

func (s *GalleryService) ListProjects(ctx context.Context) ([]models.GalleryProject, error) {
	const op = "service.GalleryService.ListProjects"

	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		s.log.Error("failed to list projects", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	models.SortProjects(projects)

	return projects, nil
}

func (s *GalleryService) GetProject(ctx context.Context, id uuid.UUID) (ProjectDetail, error) {
	const op = "service.GalleryService.GetProject"

	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrProjectNotFound) {
			return ProjectDetail{}, fmt.Errorf("%s: %w", op, ErrProjectNotFound)
		}
		return ProjectDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	images, err := s.repo.ListProjectImages(ctx, id)
	if err != nil {
		return ProjectDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	return ProjectDetail{Project: project, Images: images}, nil
}

// Reorder moves draggedID to targetID's position and persists every
// project's new index in one batch. The computed order is returned even
// when persisting fails, so callers can keep showing it.
func (s *GalleryService) Reorder(ctx context.Context, draggedID, targetID uuid.UUID) ([]models.GalleryProject, error) {
	const op = "service.GalleryService.Reorder"

	log := s.log.With(
		slog.String("op", op),
		slog.String("dragged_id", draggedID.String()),
		slog.String("target_id", targetID.String()),
	)

	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids, err := ordering.Move(ordering.IDs(projects), draggedID, targetID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrProjectNotFound)
	}

	arranged := ordering.Arrange(projects, ids)
	if draggedID == targetID {
		return arranged, nil
	}

	if err := s.persistOrder(ctx, ids); err != nil {
		log.Error("failed to persist order", sl.Err(err))
		return arranged, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("projects reordered")

	return arranged, nil
}

// ApplyOrder persists a complete order sent by the client.
func (s *GalleryService) ApplyOrder(ctx context.Context, ids []uuid.UUID) ([]models.GalleryProject, error) {
	const op = "service.GalleryService.ApplyOrder"

	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !ordering.SameSet(ordering.IDs(projects), ids) {
		return nil, fmt.Errorf("%s: %w", op, ErrOrderMismatch)
	}

	arranged := ordering.Arrange(projects, ids)

	if err := s.persistOrder(ctx, ids); err != nil {
		s.log.Error("failed to persist order", slog.String("op", op), sl.Err(err))
		return arranged, fmt.Errorf("%s: %w", op, err)
	}

	return arranged, nil
}

func (s *GalleryService) persistOrder(ctx context.Context, ids []uuid.UUID) error {
	if err := s.repo.UpdateDisplayOrders(ctx, ordering.Renumber(ids)); err != nil {
		return err
	}
	s.changed(ctx, changefeed.TableGalleryProjects, changefeed.OpUpdate, uuid.Nil)
	return nil
}

// Delete removes a project and, through the foreign key, its images.
func (s *GalleryService) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	const op = "service.GalleryService.Delete"

	log := s.log.With(slog.String("op", op), slog.String("project_id", id.String()))

	if !confirmed {
		return fmt.Errorf("%s: %w", op, ErrConfirmationRequired)
	}

	if err := s.repo.DeleteProject(ctx, id); err != nil {
		if errors.Is(err, storage.ErrProjectNotFound) {
			return fmt.Errorf("%s: %w", op, ErrProjectNotFound)
		}
		log.Error("failed to delete project", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.changed(ctx, changefeed.TableGalleryProjects, changefeed.OpDelete, id)
	log.Info("project deleted")

	return nil
}

// ComparisonView is what the before/after widget needs to render.
type ComparisonView struct {
	ProjectID   uuid.UUID       `json:"project_id"`
	Title       string          `json:"title"`
	BeforeURL   string          `json:"before_url"`
	AfterURL    string          `json:"after_url"`
	Slider      *compare.Slider `json:"slider"`
	ClipInset   string          `json:"clip_inset"`
	DividerLeft string          `json:"divider_left"`
}

func (s *GalleryService) Comparison(ctx context.Context, id uuid.UUID) (ComparisonView, error) {
	const op = "service.GalleryService.Comparison"

	detail, err := s.GetProject(ctx, id)
	if err != nil {
		return ComparisonView{}, fmt.Errorf("%s: %w", op, err)
	}

	p := detail.Project
	before := ""
	if imgs := models.ImagesOfType(detail.Images, models.ImageTypeBefore); len(imgs) > 0 {
		before = imgs[0].ImageURL
	} else if p.BeforeImageURL != nil {
		before = *p.BeforeImageURL
	}
	if before == "" {
		return ComparisonView{}, fmt.Errorf("%s: %w", op, ErrNoComparison)
	}

	after := p.AfterImageURL
	if imgs := models.ImagesOfType(detail.Images, models.ImageTypeAfter); len(imgs) > 0 {
		after = imgs[0].ImageURL
	}

	slider := compare.New()

	return ComparisonView{
		ProjectID:   p.ID,
		Title:       p.Title,
		BeforeURL:   before,
		AfterURL:    after,
		Slider:      slider,
		ClipInset:   slider.ClipInset(),
		DividerLeft: slider.DividerLeft(),
	}, nil
}

// changed drops the local cache and tells other instances. Publish
// failures are logged only.
func (s *GalleryService) changed(ctx context.Context, table, op string, id uuid.UUID) {
	s.InvalidateCache()

	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, changefeed.Change{Table: table, Op: op, ID: id}); err != nil {
		s.log.Warn("failed to publish gallery change", slog.String("table", table), sl.Err(err))
	}
}
