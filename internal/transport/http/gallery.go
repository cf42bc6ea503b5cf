package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"contractor_site/internal/domain/models"
	gallery "contractor_site/internal/services/gallery_service"
	"contractor_site/internal/transport/http/dto"
	"contractor_site/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ListGallery godoc
// @Summary Public gallery
// @Description Projects in display order with their thumbnails. category matches the primary or any secondary category.
// @Tags gallery
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} response.Response{data=[]gallery.PublicProject}
// @Router /api/v1/gallery [get]
func (r *Routers) ListGallery(c echo.Context) error {
	const op = "http.routers.ListGallery"

	log := r.log.With(slog.String("op", op))

	projects, err := r.Gallery.ListPublic(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, projects)
}

// Comparison godoc
// @Summary Before/after view
// @Tags gallery
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} response.Response{data=gallery.ComparisonView}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/gallery/{id}/compare [get]
func (r *Routers) Comparison(c echo.Context) error {
	const op = "http.routers.Comparison"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidID(c, "id")
	}

	view, err := r.Gallery.Comparison(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, view)
}

func (r *Routers) ListProjects(c echo.Context) error {
	const op = "http.routers.ListProjects"

	log := r.log.With(slog.String("op", op))

	projects, err := r.Gallery.ListProjects(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, projects)
}

func (r *Routers) GetProject(c echo.Context) error {
	const op = "http.routers.GetProject"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidID(c, "id")
	}

	detail, err := r.Gallery.GetProject(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, detail)
}

// SaveProject godoc
// @Summary Create or replace a project
// @Description Validates the whole project before writing, then replaces its image set. A POST creates the project at the end of the gallery.
// @Tags admin-gallery
// @Accept json
// @Produce json
// @Param id path string false "Project ID (PUT only)" format(uuid)
// @Param request body dto.SaveProjectRequest true "Project"
// @Success 200 {object} response.Response{data=gallery.ProjectDetail}
// @Success 201 {object} response.Response{data=gallery.ProjectDetail}
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/admin/gallery [post]
// @Router /api/v1/admin/gallery/{id} [put]
func (r *Routers) SaveProject(c echo.Context) error {
	const op = "http.routers.SaveProject"

	log := r.log.With(slog.String("op", op))

	id := uuid.Nil
	if raw := c.Param("id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return invalidID(c, "id")
		}
		id = parsed
	}

	var req dto.SaveProjectRequest
	if resp := r.bind(c, log, &req); resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}

	content, err := gallery.ContentFor(req.DisplayMode, req.AfterImageURL, req.BeforeImageURL, req.ProjectImages())
	if err != nil {
		return r.fail(c, log, err)
	}

	detail, err := r.Gallery.Save(c.Request().Context(), gallery.ProjectInput{
		ID:          id,
		Title:       req.Title,
		Category:    req.Category,
		Categories:  req.Categories,
		Location:    req.Location,
		Description: req.Description,
		Featured:    req.Featured,
		Content:     content,
	})
	if err != nil {
		return r.fail(c, log, err)
	}

	status := http.StatusOK
	if id == uuid.Nil {
		status = http.StatusCreated
	}
	return ok(c, status, detail)
}

// ReorderProjects godoc
// @Summary Drag-and-drop reorder
// @Description Moves dragged_id to target_id's position. When saving fails the computed order is still returned in data.
// @Tags admin-gallery
// @Accept json
// @Produce json
// @Param request body dto.ReorderRequest true "Move"
// @Success 200 {object} response.Response{data=[]models.GalleryProject}
// @Failure 500 {object} response.ErrorResponse{data=[]models.GalleryProject}
// @Router /api/v1/admin/gallery/reorder [post]
func (r *Routers) ReorderProjects(c echo.Context) error {
	const op = "http.routers.ReorderProjects"

	log := r.log.With(slog.String("op", op))

	var req dto.ReorderRequest
	if resp := r.bind(c, log, &req); resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}

	projects, err := r.Gallery.Reorder(c.Request().Context(), req.DraggedID, req.TargetID)
	if err != nil && projects != nil {
		log.Error("reorder not saved", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status:  "error",
			Error:   "reorder_not_saved",
			Details: "The new order could not be saved",
			Data:    projects,
		})
	}
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, projects)
}

func (r *Routers) ApplyOrder(c echo.Context) error {
	const op = "http.routers.ApplyOrder"

	log := r.log.With(slog.String("op", op))

	var req dto.ApplyOrderRequest
	if resp := r.bind(c, log, &req); resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}

	projects, err := r.Gallery.ApplyOrder(c.Request().Context(), req.IDs)
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, projects)
}

// DeleteProject godoc
// @Summary Delete a project
// @Description Requires confirm=true. Images are removed with the project.
// @Tags admin-gallery
// @Param id path string true "Project ID" format(uuid)
// @Param confirm query bool true "Confirmation"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/admin/gallery/{id} [delete]
func (r *Routers) DeleteProject(c echo.Context) error {
	const op = "http.routers.DeleteProject"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidID(c, "id")
	}

	confirmed, _ := strconv.ParseBool(c.QueryParam("confirm"))

	if err := r.Gallery.Delete(c.Request().Context(), id, confirmed); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadProjectImages godoc
// @Summary Upload editor images
// @Description Uploads files one at a time in order and appends them to the draft. Failed files are listed and left out.
// @Tags admin-gallery
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Images"
// @Param image_type formData string true "Image type" Enums(before, after, gallery)
// @Param draft formData string false "Current draft images as JSON"
// @Success 200 {object} response.Response{data=gallery.UploadResult}
// @Router /api/v1/admin/gallery/images [post]
func (r *Routers) UploadProjectImages(c echo.Context) error {
	const op = "http.routers.UploadProjectImages"

	log := r.log.With(slog.String("op", op))

	imageType := models.ImageType(c.FormValue("image_type"))
	if !imageType.Valid() {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "image_type must be before, after or gallery"))
	}

	var draft []gallery.DraftImage
	if raw := c.FormValue("draft"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &draft); err != nil {
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "draft must be a JSON array"))
		}
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "files are required"))
	}

	result := r.Gallery.UploadImages(c.Request().Context(), caller(c).UserID, draft, form.File["files"], imageType)

	log.Info("project images uploaded",
		slog.Int("images", len(result.Images)),
		slog.Int("failed", len(result.Failed)),
	)

	return ok(c, http.StatusOK, result)
}
