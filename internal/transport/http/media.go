package http

import (
	"log/slog"
	"net/http"

	media "contractor_site/internal/services/media_service"
	"contractor_site/internal/transport/http/dto"
	"contractor_site/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

var uploadFolders = map[string]bool{"projects": true, "blog": true}

// UploadMedia godoc
// @Summary Upload one image
// @Description Compresses the image and stores it. Used for blog cover images and single project images.
// @Tags admin-media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Param folder formData string false "Target folder" Enums(projects, blog) default(blog)
// @Success 201 {object} response.Response{data=models.Upload}
// @Failure 413 {object} response.ErrorResponse
// @Failure 415 {object} response.ErrorResponse
// @Router /api/v1/admin/media [post]
func (r *Routers) UploadMedia(c echo.Context) error {
	const op = "http.routers.UploadMedia"

	log := r.log.With(slog.String("op", op))

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "file is required"))
	}

	folder := c.FormValue("folder")
	if folder == "" {
		folder = "blog"
	}
	if !uploadFolders[folder] {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "folder must be projects or blog"))
	}

	upload, err := r.Media.UploadImage(c.Request().Context(), caller(c).UserID, file, folder)
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusCreated, upload)
}

// DisplayURL godoc
// @Summary Resized image URL
// @Tags media
// @Produce json
// @Param src query string true "Stored image URL"
// @Param width query int false "Width in pixels"
// @Param quality query int false "Quality 1-100"
// @Param format query string false "Output format"
// @Success 200 {object} response.Response{data=dto.DisplayURLResponse}
// @Router /api/v1/media/display [get]
func (r *Routers) DisplayURL(c echo.Context) error {
	const op = "http.routers.DisplayURL"

	log := r.log.With(slog.String("op", op))

	var req dto.DisplayURLRequest
	if resp := r.bind(c, log, &req); resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}

	url := media.DisplayURL(req.Src, media.Transform{
		Width:   req.Width,
		Quality: req.Quality,
		Format:  req.Format,
	})

	return ok(c, http.StatusOK, dto.DisplayURLResponse{URL: url})
}
