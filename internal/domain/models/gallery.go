package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type DisplayMode string

const (
	DisplayModeSingle      DisplayMode = "single"
	DisplayModeSlideshow   DisplayMode = "slideshow"
	DisplayModeBeforeAfter DisplayMode = "before_after"
)

func (m DisplayMode) Valid() bool {
	switch m {
	case DisplayModeSingle, DisplayModeSlideshow, DisplayModeBeforeAfter:
		return true
	}
	return false
}

type ImageType string

const (
	ImageTypeBefore  ImageType = "before"
	ImageTypeAfter   ImageType = "after"
	ImageTypeGallery ImageType = "gallery"
)

func (t ImageType) Valid() bool {
	switch t {
	case ImageTypeBefore, ImageTypeAfter, ImageTypeGallery:
		return true
	}
	return false
}

// GalleryProject is one renovation project shown in the public gallery.
type GalleryProject struct {
	ID             uuid.UUID   `db:"id" json:"id"`
	Title          string      `db:"title" json:"title"`
	Category       string      `db:"category" json:"category"`              // primary tag, e.g. "kitchen"
	Categories     []string    `db:"categories" json:"categories,omitempty"` // optional multi-category list
	Location       string      `db:"location" json:"location,omitempty"`
	Description    string      `db:"description" json:"description,omitempty"`
	DisplayMode    DisplayMode `db:"display_mode" json:"display_mode"`
	AfterImageURL  string      `db:"after_image_url" json:"after_image_url"`
	BeforeImageURL *string     `db:"before_image_url" json:"before_image_url,omitempty"`
	Featured       bool        `db:"featured" json:"featured"`
	DisplayOrder   int         `db:"display_order" json:"display_order"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// InCategory reports whether the project is tagged with category either as
// its primary category or in the multi-category list.
func (p GalleryProject) InCategory(category string) bool {
	if category == "" || category == "all" {
		return true
	}
	if p.Category == category {
		return true
	}
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ProjectImage belongs to exactly one GalleryProject and is removed with it.
type ProjectImage struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ProjectID    uuid.UUID `db:"project_id" json:"project_id"`
	ImageURL     string    `db:"image_url" json:"image_url"`
	ImageType    ImageType `db:"image_type" json:"image_type"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SortProjects orders projects by display_order; ties keep insertion order.
func SortProjects(projects []GalleryProject) {
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].DisplayOrder != projects[j].DisplayOrder {
			return projects[i].DisplayOrder < projects[j].DisplayOrder
		}
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
}

// ImagesOfType returns images of one type ordered by display_order.
func ImagesOfType(images []ProjectImage, t ImageType) []ProjectImage {
	var out []ProjectImage
	for _, img := range images {
		if img.ImageType == t {
			out = append(out, img)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out
}

// Thumbnail derives the default image: first after-type image, else first
// gallery-type image, else the project's own after_image_url.
func Thumbnail(project GalleryProject, images []ProjectImage) string {
	if after := ImagesOfType(images, ImageTypeAfter); len(after) > 0 {
		return after[0].ImageURL
	}
	if gallery := ImagesOfType(images, ImageTypeGallery); len(gallery) > 0 {
		return gallery[0].ImageURL
	}
	return project.AfterImageURL
}

// OrderUpdate is a single display_order rewrite produced by a reorder.
type OrderUpdate struct {
	ID           uuid.UUID
	DisplayOrder int
}
