package http

import (
	"log/slog"
	"net/http"

	"contractor_site/internal/domain/leadform"
	"contractor_site/internal/transport/http/dto"
	"contractor_site/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// CaptureLead godoc
// @Summary Submit the contact form
// @Description Validates every step and stores the lead. CRM and sheet mirrors run afterwards and never affect the response.
// @Tags leads
// @Accept json
// @Produce json
// @Param request body leadform.Fields true "Form fields"
// @Success 201 {object} response.Response{data=dto.LeadCapturedResponse}
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/leads [post]
func (r *Routers) CaptureLead(c echo.Context) error {
	const op = "http.routers.CaptureLead"

	log := r.log.With(slog.String("op", op))

	var fields leadform.Fields
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	form := leadform.Restore(r.validate, fields, leadform.StepContact)

	lead, err := form.Submit(c.Request().Context(), r.Leads)
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusCreated, dto.LeadCapturedResponse{ID: lead.ID})
}

// ValidateLeadStep godoc
// @Summary Check one form step
// @Tags leads
// @Accept json
// @Produce json
// @Param step query string true "Step" Enums(contact, project, details)
// @Param request body leadform.Fields true "Form fields"
// @Success 200 {object} response.Response{data=dto.StepValidResponse}
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/leads/validate [post]
func (r *Routers) ValidateLeadStep(c echo.Context) error {
	const op = "http.routers.ValidateLeadStep"

	log := r.log.With(slog.String("op", op))

	step, err := leadform.ParseStep(c.QueryParam("step"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_step", err.Error()))
	}

	var fields leadform.Fields
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := leadform.Restore(r.validate, fields, step).ValidateStep(step); err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, dto.StepValidResponse{Step: step.String(), Valid: true})
}

func (r *Routers) ListLeads(c echo.Context) error {
	const op = "http.routers.ListLeads"

	log := r.log.With(slog.String("op", op))

	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", defaultPerPage)

	leads, total, err := r.Leads.List(c.Request().Context(), page, perPage)
	if err != nil {
		return r.fail(c, log, err)
	}

	return ok(c, http.StatusOK, dto.LeadListResponse{
		Leads:      leads,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
	})
}
