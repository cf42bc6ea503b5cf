package http

import (
	"log/slog"
	"net/http"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (r *Routers) ListUsers(c echo.Context) error {
	const op = "http.routers.ListUsers"

	log := r.log.With(slog.String("op", op))

	users, err := r.Users.ListUsers(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, users)
}

// GrantRole godoc
// @Summary Grant a role
// @Tags admin-users
// @Accept json
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Param request body dto.GrantRoleRequest true "Role"
// @Success 201 {object} response.Response{data=models.UserRole}
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/v1/admin/users/{id}/roles [post]
func (r *Routers) GrantRole(c echo.Context) error {
	const op = "http.routers.GrantRole"

	log := r.log.With(slog.String("op", op))

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidID(c, "id")
	}

	var req dto.GrantRoleRequest
	if resp := r.bind(c, log, &req); resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}

	granted, err := r.Users.GrantRole(c.Request().Context(), userID, req.Role)
	if err != nil {
		return r.fail(c, log, err)
	}

	log.Info("role granted",
		slog.String("user_id", userID.String()),
		slog.String("role", string(req.Role)),
		slog.String("by", caller(c).UserID.String()),
	)

	return ok(c, http.StatusCreated, granted)
}

func (r *Routers) RevokeRole(c echo.Context) error {
	const op = "http.routers.RevokeRole"

	log := r.log.With(slog.String("op", op))

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidID(c, "id")
	}

	if err := r.Users.RevokeRole(c.Request().Context(), userID, models.Role(c.Param("role"))); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AdminOverview godoc
// @Summary Overview tab counts
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=user.Overview}
// @Router /api/v1/admin/overview [get]
func (r *Routers) AdminOverview(c echo.Context) error {
	const op = "http.routers.AdminOverview"

	log := r.log.With(slog.String("op", op))

	overview, err := r.Overview.Overview(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, overview)
}
