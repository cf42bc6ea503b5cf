package http

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"contractor_site/internal/domain/access"
	"contractor_site/internal/domain/leadform"
	"contractor_site/internal/domain/models"
	"contractor_site/internal/domain/ordering"
	"contractor_site/internal/lib/logger/sl"
	"contractor_site/internal/services/auth"
	blog "contractor_site/internal/services/blog_service"
	"contractor_site/internal/services/changefeed"
	gallery "contractor_site/internal/services/gallery_service"
	lead "contractor_site/internal/services/lead_service"
	user "contractor_site/internal/services/user_service"
	"contractor_site/internal/storage"
	"contractor_site/internal/transport/http/dto/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	_ "contractor_site/docs"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (uuid.UUID, error)
	SignIn(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	SignOut(ctx context.Context, userID uuid.UUID) error
}

type UserService interface {
	ListUsers(ctx context.Context) ([]models.UserWithRoles, error)
	GrantRole(ctx context.Context, userID uuid.UUID, role models.Role) (models.UserRole, error)
	RevokeRole(ctx context.Context, userID uuid.UUID, role models.Role) error
}

type OverviewService interface {
	Overview(ctx context.Context) (user.Overview, error)
}

type GalleryService interface {
	ListPublic(ctx context.Context, category string) ([]gallery.PublicProject, error)
	Comparison(ctx context.Context, id uuid.UUID) (gallery.ComparisonView, error)
	ListProjects(ctx context.Context) ([]models.GalleryProject, error)
	GetProject(ctx context.Context, id uuid.UUID) (gallery.ProjectDetail, error)
	Save(ctx context.Context, in gallery.ProjectInput) (gallery.ProjectDetail, error)
	Reorder(ctx context.Context, draggedID, targetID uuid.UUID) ([]models.GalleryProject, error)
	ApplyOrder(ctx context.Context, ids []uuid.UUID) ([]models.GalleryProject, error)
	Delete(ctx context.Context, id uuid.UUID, confirmed bool) error
	UploadImages(ctx context.Context, uploaderID uuid.UUID, draft []gallery.DraftImage, files []*multipart.FileHeader, imageType models.ImageType) gallery.UploadResult
}

type MediaService interface {
	UploadImage(ctx context.Context, uploaderID uuid.UUID, file *multipart.FileHeader, folder string) (*models.Upload, error)
}

type BlogService interface {
	ListPublic(ctx context.Context, category string) ([]models.BlogPost, error)
	GetPublicPost(ctx context.Context, slug string) (blog.PublicPost, error)
	ListPosts(ctx context.Context, status string, page, perPage int) ([]models.BlogPost, int, error)
	GetPost(ctx context.Context, postID uuid.UUID) (models.BlogPost, error)
	CreatePost(ctx context.Context, in blog.PostInput) (models.BlogPost, error)
	UpdatePost(ctx context.Context, postID uuid.UUID, in blog.PostUpdate) (models.BlogPost, error)
	PublishPost(ctx context.Context, postID uuid.UUID) (models.BlogPost, error)
	ArchivePost(ctx context.Context, postID uuid.UUID) (models.BlogPost, error)
	DeletePost(ctx context.Context, postID uuid.UUID) error
}

type LeadService interface {
	leadform.Submitter
	List(ctx context.Context, page, perPage int) ([]models.Lead, int, error)
}

type ChangeSubscriber interface {
	Subscribe(ctx context.Context, tables ...string) (<-chan changefeed.Change, error)
}

// Services are the handlers' dependencies.
type Services struct {
	Auth     AuthService
	Users    UserService
	Overview OverviewService
	Gallery  GalleryService
	Media    MediaService
	Blog     BlogService
	Leads    LeadService
	Changes  ChangeSubscriber
}

type Routers struct {
	Services
	log      *slog.Logger
	validate *validator.Validate
	cookie   sessions.Options
}

// NewRouter builds the handler set. cookie configures the admin session cookie.
func NewRouter(log *slog.Logger, svc Services, cookie sessions.Options) *Routers {
	return &Routers{
		Services: svc,
		log:      log,
		validate: leadform.NewValidator(),
		cookie:   cookie,
	}
}

type statusMapping struct {
	target error
	status int
	code   string
}

var errorStatuses = []statusMapping{
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "authentication_failed"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{auth.ErrUserExist, http.StatusConflict, "user_already_exists"},
	{user.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{user.ErrRoleExists, http.StatusConflict, "role_exists"},
	{user.ErrRoleNotFound, http.StatusNotFound, "role_not_found"},
	{user.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
	{gallery.ErrProjectNotFound, http.StatusNotFound, "project_not_found"},
	{gallery.ErrNoComparison, http.StatusNotFound, "no_comparison"},
	{gallery.ErrConfirmationRequired, http.StatusBadRequest, "confirmation_required"},
	{gallery.ErrOrderMismatch, http.StatusBadRequest, "order_mismatch"},
	{ordering.ErrUnknownID, http.StatusNotFound, "project_not_found"},
	{blog.ErrPostNotFound, http.StatusNotFound, "post_not_found"},
	{blog.ErrInvalidPost, http.StatusBadRequest, "invalid_post"},
	{blog.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
	{blog.ErrSlugTaken, http.StatusConflict, "slug_taken"},
	{lead.ErrInvalidLead, http.StatusBadRequest, "invalid_lead"},
	{leadform.ErrSubmitted, http.StatusConflict, "already_submitted"},
	{storage.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "file_too_large"},
	{storage.ErrInvalidFileType, http.StatusUnsupportedMediaType, "invalid_file_type"},
}

// fail maps err to a status and writes the error body. Unknown errors are
// logged and hidden behind a 500.
func (r *Routers) fail(c echo.Context, log *slog.Logger, err error) error {
	var galleryErr *gallery.ValidationError
	if errors.As(err, &galleryErr) {
		return c.JSON(http.StatusUnprocessableEntity, response.ErrorResponse{
			Status: "error",
			Error:  "validation_failed",
			Fields: galleryErr.Fields,
		})
	}

	var formErr *leadform.ValidationError
	if errors.As(err, &formErr) {
		return c.JSON(http.StatusUnprocessableEntity, response.ErrorResponse{
			Status:  "error",
			Error:   "validation_failed",
			Details: formErr.Step.String(),
			Fields:  formErr.Fields,
		})
	}

	for _, m := range errorStatuses {
		if errors.Is(err, m.target) {
			log.Warn("request rejected", slog.String("reason", m.code))
			return c.JSON(m.status, response.ErrorResponseWithDetails(m.code, m.target.Error()))
		}
	}

	log.Error("request failed", sl.Err(err))
	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}

// bind decodes and validates the request into req. A non-nil result is the
// 400 body to send.
func (r *Routers) bind(c echo.Context, log *slog.Logger, req interface{}) *response.ErrorResponse {
	if err := c.Bind(req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		resp := response.ErrInvalidRequestFormat
		return &resp
	}

	if err := c.Validate(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		resp := response.ErrorResponseWithDetails("invalid_request", err.Error())
		return &resp
	}

	return nil
}

func invalidID(c echo.Context, name string) error {
	return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", name+" must be a UUID"))
}

func queryInt(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// caller is the signed-in user. Routes that use it sit behind a session check.
func caller(c echo.Context) *access.Session {
	return access.FromContext(c.Request().Context())
}

func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, response.SuccessResponse(data))
}
