package dto

import (
	"contractor_site/internal/domain/access"
	"contractor_site/internal/domain/models"
)

type GrantRoleRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=admin sales user"`
}

// ShellResponse describes what the admin shell may show to the caller.
type ShellResponse struct {
	State    access.ShellState `json:"state"`
	Tabs     []access.Tab      `json:"tabs"`
	Redirect string            `json:"redirect,omitempty"`
	Session  *access.Session   `json:"session,omitempty"`
}
