package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// BlogPost is keyed by Slug. Posts from the bundled fallback list carry a nil ID.
type BlogPost struct {
	ID            uuid.UUID  `db:"id" json:"id" yaml:"-"`
	Slug          string     `db:"slug" json:"slug" yaml:"slug"`
	Title         string     `db:"title" json:"title" yaml:"title"`
	Excerpt       string     `db:"excerpt" json:"excerpt,omitempty" yaml:"excerpt"`
	Content       string     `db:"content" json:"content" yaml:"content"`
	Author        string     `db:"author" json:"author" yaml:"author"`
	Category      string     `db:"category" json:"category" yaml:"category"`
	Tags          []string   `db:"tags" json:"tags" yaml:"tags"`
	FeaturedImage string     `db:"featured_image" json:"featured_image,omitempty" yaml:"featured_image"`
	ReadTime      int        `db:"read_time" json:"read_time" yaml:"read_time"`
	Featured      bool       `db:"featured" json:"featured" yaml:"featured"`
	Status        string     `db:"status" json:"status" yaml:"status"`
	PublishedAt   *time.Time `db:"published_at" json:"published_at,omitempty" yaml:"published_at"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at,omitempty" yaml:"updated_at"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at" yaml:"-"`
}

func (p BlogPost) IsPublished() bool {
	return p.Status == PostStatusPublished
}
