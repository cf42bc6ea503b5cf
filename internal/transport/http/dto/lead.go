package dto

import (
	"contractor_site/internal/domain/models"

	"github.com/google/uuid"
)

type LeadCapturedResponse struct {
	ID uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
}

type StepValidResponse struct {
	Step  string `json:"step"`
	Valid bool   `json:"valid"`
}

type LeadListResponse struct {
	Leads      []models.Lead `json:"leads"`
	TotalCount int           `json:"total_count"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
}
