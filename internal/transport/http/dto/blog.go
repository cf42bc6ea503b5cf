package dto

import "contractor_site/internal/domain/models"

type CreateBlogPostRequest struct {
	Title         string   `json:"title" validate:"required,min=3,max=200"`
	Slug          string   `json:"slug,omitempty" validate:"omitempty,max=200"`
	Excerpt       string   `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Content       string   `json:"content" validate:"required"`
	Author        string   `json:"author,omitempty" validate:"omitempty,max=100"`
	Category      string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,dive,max=50"`
	FeaturedImage string   `json:"featured_image,omitempty"`
	Featured      bool     `json:"featured"`
	Status        string   `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
}

type UpdateBlogPostRequest struct {
	Title         *string   `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Slug          *string   `json:"slug,omitempty" validate:"omitempty,max=200"`
	Excerpt       *string   `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Content       *string   `json:"content,omitempty"`
	Author        *string   `json:"author,omitempty" validate:"omitempty,max=100"`
	Category      *string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Tags          *[]string `json:"tags,omitempty"`
	FeaturedImage *string   `json:"featured_image,omitempty"`
	Featured      *bool     `json:"featured,omitempty"`
}

type BlogPostListResponse struct {
	Posts      []models.BlogPost `json:"posts"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
}
