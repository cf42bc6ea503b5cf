package dto

import (
	"contractor_site/internal/domain/models"

	"github.com/google/uuid"
)

type ProjectImageRequest struct {
	ImageURL  string           `json:"image_url" validate:"required"`
	ImageType models.ImageType `json:"image_type" validate:"required,oneof=before after gallery"`
}

// SaveProjectRequest is the editor payload. Images of a type the display
// mode does not use are dropped on save.
type SaveProjectRequest struct {
	Title          string                `json:"title" validate:"max=200"`
	Category       string                `json:"category" validate:"max=100"`
	Categories     []string              `json:"categories" validate:"omitempty,dive,max=100"`
	Location       string                `json:"location" validate:"max=200"`
	Description    string                `json:"description" validate:"max=5000"`
	Featured       bool                  `json:"featured"`
	DisplayMode    models.DisplayMode    `json:"display_mode"`
	AfterImageURL  string                `json:"after_image_url"`
	BeforeImageURL string                `json:"before_image_url"`
	Images         []ProjectImageRequest `json:"images" validate:"omitempty,dive"`
}

func (r SaveProjectRequest) ProjectImages() []models.ProjectImage {
	out := make([]models.ProjectImage, len(r.Images))
	for i, img := range r.Images {
		out[i] = models.ProjectImage{ImageURL: img.ImageURL, ImageType: img.ImageType}
	}
	return out
}

type ReorderRequest struct {
	DraggedID uuid.UUID `json:"dragged_id" validate:"required" swaggertype:"string" format:"uuid"`
	TargetID  uuid.UUID `json:"target_id" validate:"required" swaggertype:"string" format:"uuid"`
}

type ApplyOrderRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1" swaggertype:"array,string"`
}
