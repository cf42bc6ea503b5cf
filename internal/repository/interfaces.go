package repository

import (
	"context"
	"time"

	"contractor_site/internal/domain/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	SaveUser(ctx context.Context, email string, passHash []byte) (uuid.UUID, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

type RoleRepository interface {
	RolesForUser(ctx context.Context, userID uuid.UUID) ([]models.Role, error)
	HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error)
	AddRole(ctx context.Context, userID uuid.UUID, role models.Role) (models.UserRole, error)
	RemoveRole(ctx context.Context, userID uuid.UUID, role models.Role) error
	ListRoles(ctx context.Context) ([]models.UserRole, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	TakeRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteAllUserTokens(ctx context.Context, userID string) error
}

type GalleryRepository interface {
	ListProjects(ctx context.Context) ([]models.GalleryProject, error)
	GetProject(ctx context.Context, id uuid.UUID) (models.GalleryProject, error)
	ListProjectImages(ctx context.Context, projectID uuid.UUID) ([]models.ProjectImage, error)
	ListAllImages(ctx context.Context) ([]models.ProjectImage, error)
	SaveProject(ctx context.Context, project models.GalleryProject, images []models.ProjectImage) (models.GalleryProject, error)
	UpdateDisplayOrders(ctx context.Context, updates []models.OrderUpdate) error
	DeleteProject(ctx context.Context, id uuid.UUID) error
	CountProjects(ctx context.Context) (int, error)
}

type BlogRepository interface {
	SaveBlogPost(ctx context.Context, post models.BlogPost) (uuid.UUID, error)
	UpdateBlogPostFields(ctx context.Context, postID uuid.UUID, updates map[string]interface{}) error
	DeleteBlogPost(ctx context.Context, postID uuid.UUID) error
	GetBlogPostByID(ctx context.Context, postID uuid.UUID) (models.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (models.BlogPost, error)
	GetBlogPosts(ctx context.Context, statusFilter string, page, perPage int) ([]models.BlogPost, int, error)
}

type LeadRepository interface {
	CreateLead(ctx context.Context, lead models.Lead) (models.Lead, error)
	MarkSynced(ctx context.Context, leadID uuid.UUID, target models.SyncTarget) error
	GetLeads(ctx context.Context, page, perPage int) ([]models.Lead, int, error)
	CountLeads(ctx context.Context) (total int, unsynced int, err error)
}

type UploadRepository interface {
	CreateUpload(ctx context.Context, upload *models.Upload) error
}
