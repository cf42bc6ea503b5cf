package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/lib/logger/sl"
	"contractor_site/internal/services/changefeed"
	"contractor_site/internal/storage"

	"github.com/google/uuid"
)

// ValidationError lists the editor fields that block a save.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "invalid project: " + strings.Join(parts, "; ")
}

// Content is the mode-specific part of a project: exactly one of
// SingleContent, SlideshowContent or BeforeAfterContent.
type Content interface {
	Mode() models.DisplayMode
	apply(p *models.GalleryProject, problems map[string]string) []models.ProjectImage
}

// SingleContent shows one image.
type SingleContent struct {
	AfterImageURL string
}

// SlideshowContent cycles through gallery images. AfterImageURL defaults to
// the first gallery image.
type SlideshowContent struct {
	AfterImageURL string
	GalleryImages []string
}

// BeforeAfterContent pairs before and after shots. The project's after and
// before URLs default to the first image of each type.
type BeforeAfterContent struct {
	AfterImageURL  string
	BeforeImageURL string
	AfterImages    []string
	BeforeImages   []string
}

func (SingleContent) Mode() models.DisplayMode      { return models.DisplayModeSingle }
func (SlideshowContent) Mode() models.DisplayMode   { return models.DisplayModeSlideshow }
func (BeforeAfterContent) Mode() models.DisplayMode { return models.DisplayModeBeforeAfter }

func (c SingleContent) apply(p *models.GalleryProject, problems map[string]string) []models.ProjectImage {
	p.AfterImageURL = strings.TrimSpace(c.AfterImageURL)
	p.BeforeImageURL = nil
	if p.AfterImageURL == "" {
		problems["after_image_url"] = "is required for a single image project"
	}
	return []models.ProjectImage{}
}

func (c SlideshowContent) apply(p *models.GalleryProject, problems map[string]string) []models.ProjectImage {
	gallery := numbered(c.GalleryImages, models.ImageTypeGallery)

	p.AfterImageURL = strings.TrimSpace(c.AfterImageURL)
	p.BeforeImageURL = nil
	if p.AfterImageURL == "" && len(gallery) > 0 {
		p.AfterImageURL = gallery[0].ImageURL
	}
	if p.AfterImageURL == "" {
		problems["images"] = "a slideshow needs at least one gallery image"
	}
	return gallery
}

func (c BeforeAfterContent) apply(p *models.GalleryProject, problems map[string]string) []models.ProjectImage {
	after := numbered(c.AfterImages, models.ImageTypeAfter)
	before := numbered(c.BeforeImages, models.ImageTypeBefore)

	p.AfterImageURL = strings.TrimSpace(c.AfterImageURL)
	if p.AfterImageURL == "" && len(after) > 0 {
		p.AfterImageURL = after[0].ImageURL
	}
	if p.AfterImageURL == "" {
		problems["images"] = "a before/after project needs at least one after image"
	}

	beforeURL := strings.TrimSpace(c.BeforeImageURL)
	if beforeURL == "" && len(before) > 0 {
		beforeURL = before[0].ImageURL
	}
	p.BeforeImageURL = nil
	if beforeURL != "" {
		p.BeforeImageURL = &beforeURL
	}

	return append(before, after...)
}

// numbered turns urls into images of one type with display_order 0..n-1 in
// list order. Blank urls are skipped.
func numbered(urls []string, t models.ImageType) []models.ProjectImage {
	out := make([]models.ProjectImage, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		out = append(out, models.ProjectImage{ImageURL: u, ImageType: t, DisplayOrder: len(out)})
	}
	return out
}

// ContentFor builds the variant for mode from a flat editor payload. Images
// whose type does not belong to mode are dropped, which is what switching
// modes in the editor does.
func ContentFor(mode models.DisplayMode, afterURL, beforeURL string, images []models.ProjectImage) (Content, error) {
	urls := func(t models.ImageType) []string {
		typed := models.ImagesOfType(images, t)
		out := make([]string, len(typed))
		for i, img := range typed {
			out[i] = img.ImageURL
		}
		return out
	}

	switch mode {
	case models.DisplayModeSingle:
		return SingleContent{AfterImageURL: afterURL}, nil
	case models.DisplayModeSlideshow:
		return SlideshowContent{AfterImageURL: afterURL, GalleryImages: urls(models.ImageTypeGallery)}, nil
	case models.DisplayModeBeforeAfter:
		return BeforeAfterContent{
			AfterImageURL:  afterURL,
			BeforeImageURL: beforeURL,
			AfterImages:    urls(models.ImageTypeAfter),
			BeforeImages:   urls(models.ImageTypeBefore),
		}, nil
	}
	return nil, &ValidationError{Fields: map[string]string{"display_mode": "must be single, slideshow or before_after"}}
}

// ProjectInput is an editor save. A nil ID creates a new project at the end
// of the gallery; any other ID must name an existing project.
type ProjectInput struct {
	ID          uuid.UUID
	Title       string
	Category    string
	Categories  []string
	Location    string
	Description string
	Featured    bool
	Content     Content
}

// Validate checks the input and returns the project row and image set that
// a save would write. Nothing is persisted.
func (in ProjectInput) Validate() (models.GalleryProject, []models.ProjectImage, error) {
	problems := make(map[string]string)

	p := models.GalleryProject{
		ID:          in.ID,
		Title:       strings.TrimSpace(in.Title),
		Category:    strings.TrimSpace(in.Category),
		Categories:  cleanCategories(in.Categories),
		Location:    strings.TrimSpace(in.Location),
		Description: strings.TrimSpace(in.Description),
		Featured:    in.Featured,
	}
	if p.Title == "" {
		problems["title"] = "is required"
	}
	if p.Category == "" {
		problems["category"] = "is required"
	}

	var images []models.ProjectImage
	if in.Content == nil {
		problems["display_mode"] = "is required"
	} else {
		p.DisplayMode = in.Content.Mode()
		images = in.Content.apply(&p, problems)
	}

	if len(problems) > 0 {
		return models.GalleryProject{}, nil, &ValidationError{Fields: problems}
	}
	return p, images, nil
}

// Save validates the input before any write, then upserts the project and
// replaces its whole image set. Concurrent saves of the same project are
// last-write-wins.
func (s *GalleryService) Save(ctx context.Context, in ProjectInput) (ProjectDetail, error) {
	const op = "service.GalleryService.Save"

	log := s.log.With(
		slog.String("op", op),
		slog.String("project_id", in.ID.String()),
		slog.String("title", in.Title),
	)

	project, images, err := in.Validate()
	if err != nil {
		log.Info("project rejected", sl.Err(err))
		return ProjectDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	changeOp := changefeed.OpUpdate
	if project.ID == uuid.Nil {
		changeOp = changefeed.OpInsert
		project.ID = uuid.New()

		existing, err := s.repo.ListProjects(ctx)
		if err != nil {
			log.Error("failed to list projects", sl.Err(err))
			return ProjectDetail{}, fmt.Errorf("%s: %w", op, err)
		}
		project.DisplayOrder = nextOrder(existing)
	} else if _, err := s.repo.GetProject(ctx, project.ID); err != nil {
		if errors.Is(err, storage.ErrProjectNotFound) {
			log.Info("project to update not found")
			return ProjectDetail{}, fmt.Errorf("%s: %w", op, ErrProjectNotFound)
		}
		log.Error("failed to get project", sl.Err(err))
		return ProjectDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	for i := range images {
		images[i].ProjectID = project.ID
	}

	saved, err := s.repo.SaveProject(ctx, project, images)
	if err != nil {
		log.Error("failed to save project", sl.Err(err))
		return ProjectDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	s.changed(ctx, changefeed.TableGalleryProjects, changeOp, saved.ID)
	s.changed(ctx, changefeed.TableGalleryImages, changefeed.OpUpdate, saved.ID)

	log.Info("project saved", slog.Int("images", len(images)))

	return ProjectDetail{Project: saved, Images: images}, nil
}

func nextOrder(projects []models.GalleryProject) int {
	next := 0
	for _, p := range projects {
		if p.DisplayOrder >= next {
			next = p.DisplayOrder + 1
		}
	}
	return next
}

func cleanCategories(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
