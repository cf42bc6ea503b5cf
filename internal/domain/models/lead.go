package models

import (
	"time"

	"github.com/google/uuid"
)

type SyncTarget string

const (
	SyncTargetCRM   SyncTarget = "crm"
	SyncTargetSheet SyncTarget = "sheet"
)

// Lead is a contact form submission. The sync flags are written by the
// best-effort mirrors after the lead row already exists.
type Lead struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	Phone         string    `db:"phone" json:"phone"`
	ProjectType   string    `db:"project_type" json:"project_type,omitempty"`
	City          string    `db:"city" json:"city,omitempty"`
	Timeline      string    `db:"timeline" json:"timeline,omitempty"`
	Message       string    `db:"message" json:"message,omitempty"`
	FormSource    string    `db:"form_source" json:"form_source"`
	SyncedToCRM   bool      `db:"synced_to_crm" json:"synced_to_crm"`
	SyncedToSheet bool      `db:"synced_to_sheet" json:"synced_to_sheet"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
