package http

import (
	"log/slog"
	"net/http"

	blog "contractor_site/internal/services/blog_service"
	"contractor_site/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const defaultPerPage = 20

// ListBlog godoc
// @Summary Published posts
// @Description Database and bundled posts, newest first.
// @Tags blog
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} response.Response{data=[]models.BlogPost}
// @Router /api/v1/blog [get]
func (r *Routers) ListBlog(c echo.Context) error {
	const op = "http.routers.ListBlog"

	log := r.log.With(slog.String("op", op))

	posts, err := r.Blog.ListPublic(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, posts)
}

// GetBlogPost godoc
// @Summary Read a post
// @Description Published post with rendered HTML, heading outline and read time.
// @Tags blog
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} response.Response{data=blog.PublicPost}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/blog/{slug} [get]
func (r *Routers) GetBlogPost(c echo.Context) error {
	const op = "http.routers.GetBlogPost"

	log := r.log.With(
		slog.String("op", op),
		slog.String("slug", c.Param("slug")),
	)

	post, err := r.Blog.GetPublicPost(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, post)
}

// ListPosts godoc
// @Summary Admin post list
// @Tags admin-blog
// @Produce json
// @Param status query string false "draft, published, archived or all"
// @Param page query int false "Page" default(1)
// @Param per_page query int false "Page size" default(20)
// @Success 200 {object} response.Response{data=dto.BlogPostListResponse}
// @Router /api/v1/admin/blog [get]
func (r *Routers) ListPosts(c echo.Context) error {
	const op = "http.routers.ListPosts"

	log := r.log.With(slog.String("op", op))

	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", defaultPerPage)

	posts, total, err := r.Blog.ListPosts(c.Request().Context(), c.QueryParam("status"), page, perPage)
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, dto.BlogPostListResponse{
		Posts:      posts,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
	})
}

func (r *Routers) GetPost(c echo.Context) error {
	const op = "http.routers.GetPost"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidID(c, "id")
	}

	post, err := r.Blog.GetPost(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, post)
}

// CreatePost godoc
// @Summary Create a post
// @Description The slug is derived from the title when omitted and gets a numeric suffix if taken.
// @Tags admin-blog
// @Accept json
// @Produce json
// @Param request body dto.CreateBlogPostRequest true "Post"
// @Success 201 {object} response.Response{data=models.BlogPost}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/v1/admin/blog [post]
func (r *Routers) CreatePost(c echo.Context) error {
	const op = "http.routers.CreatePost"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateBlogPostRequest
	if resp := r.bind(c, log, &req); resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}

	post, err := r.Blog.CreatePost(c.Request().Context(), blog.PostInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		Author:        req.Author,
		Category:      req.Category,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
		Featured:      req.Featured,
		Status:        req.Status,
	})
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusCreated, post)
}

func (r *Routers) UpdatePost(c echo.Context) error {
	const op = "http.routers.UpdatePost"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidID(c, "id")
	}

	var req dto.UpdateBlogPostRequest
	if resp := r.bind(c, log, &req); resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}

	post, err := r.Blog.UpdatePost(c.Request().Context(), id, blog.PostUpdate{
		Title:         req.Title,
		Slug:          req.Slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		Author:        req.Author,
		Category:      req.Category,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
		Featured:      req.Featured,
	})
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, post)
}

func (r *Routers) PublishPost(c echo.Context) error {
	const op = "http.routers.PublishPost"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidID(c, "id")
	}

	post, err := r.Blog.PublishPost(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, post)
}

func (r *Routers) ArchivePost(c echo.Context) error {
	const op = "http.routers.ArchivePost"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidID(c, "id")
	}

	post, err := r.Blog.ArchivePost(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, post)
}

func (r *Routers) DeletePost(c echo.Context) error {
	const op = "http.routers.DeletePost"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidID(c, "id")
	}

	if err := r.Blog.DeletePost(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}
