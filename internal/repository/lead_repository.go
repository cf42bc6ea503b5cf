package repository

import (
	"context"
	"fmt"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

const leadsTable = "leads"

var leadColumns = []string{
	"id", "name", "email", "phone", "project_type", "city", "timeline", "message",
	"form_source", "synced_to_crm", "synced_to_sheet", "created_at",
}

type LeadRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewLeadRepository(db *pgxpool.Pool) *LeadRepo {
	return &LeadRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateLead inserts the lead with both sync flags false.
func (r *LeadRepo) CreateLead(ctx context.Context, lead models.Lead) (models.Lead, error) {
	const op = "repository.LeadRepo.CreateLead"

	query, args, err := r.sb.Insert(leadsTable).
		Columns(
			"name",
			"email",
			"phone",
			"project_type",
			"city",
			"timeline",
			"message",
			"form_source",
		).
		Values(
			lead.Name,
			lead.Email,
			lead.Phone,
			lead.ProjectType,
			lead.City,
			lead.Timeline,
			lead.Message,
			lead.FormSource,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return models.Lead{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&lead.ID, &lead.CreatedAt); err != nil {
		return models.Lead{}, fmt.Errorf("%s: %w", op, err)
	}
	lead.SyncedToCRM = false
	lead.SyncedToSheet = false

	return lead, nil
}

func (r *LeadRepo) MarkSynced(ctx context.Context, leadID uuid.UUID, target models.SyncTarget) error {
	const op = "repository.LeadRepo.MarkSynced"

	var column string
	switch target {
	case models.SyncTargetCRM:
		column = "synced_to_crm"
	case models.SyncTargetSheet:
		column = "synced_to_sheet"
	default:
		return fmt.Errorf("%s: unknown sync target %q", op, target)
	}

	query, args, err := r.sb.Update(leadsTable).
		Set(column, true).
		Where(sq.Eq{"id": leadID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrLeadNotFound)
	}

	return nil
}

// GetLeads pages through leads newest first.
func (r *LeadRepo) GetLeads(ctx context.Context, page, perPage int) ([]models.Lead, int, error) {
	const op = "repository.LeadRepo.GetLeads"

	page, perPage = normalizePage(page, perPage)

	total, _, err := r.CountLeads(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Select(leadColumns...).
		From(leadsTable).
		OrderBy("created_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(
			&l.ID,
			&l.Name,
			&l.Email,
			&l.Phone,
			&l.ProjectType,
			&l.City,
			&l.Timeline,
			&l.Message,
			&l.FormSource,
			&l.SyncedToCRM,
			&l.SyncedToSheet,
			&l.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return leads, total, nil
}

// CountLeads returns the number of leads and how many are missing either mirror.
func (r *LeadRepo) CountLeads(ctx context.Context) (int, int, error) {
	const op = "repository.LeadRepo.CountLeads"

	query, args, err := r.sb.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE NOT synced_to_crm OR NOT synced_to_sheet)",
	).From(leadsTable).ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	var total, unsynced int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total, &unsynced); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	return total, unsynced, nil
}
