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

const rolesTable = "user_roles"

type RoleRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewRoleRepository(db *pgxpool.Pool) *RoleRepo {
	return &RoleRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *RoleRepo) RolesForUser(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	const op = "repository.RoleRepo.RolesForUser"

	query, args, err := r.sb.Select("role").
		From(rolesTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("role").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return roles, nil
}

func (r *RoleRepo) HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error) {
	const op = "repository.RoleRepo.HasRole"

	query, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From(rolesTable).
		Where(sq.Eq{"user_id": userID, "role": string(role)}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

// AddRole grants role. The (user_id, role) unique index turns a concurrent
// duplicate into ErrRoleExists.
func (r *RoleRepo) AddRole(ctx context.Context, userID uuid.UUID, role models.Role) (models.UserRole, error) {
	const op = "repository.RoleRepo.AddRole"

	query, args, err := r.sb.Insert(rolesTable).
		Columns("user_id", "role").
		Values(userID, string(role)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return models.UserRole{}, fmt.Errorf("%s: %w", op, err)
	}

	ur := models.UserRole{UserID: userID, Role: role}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&ur.ID, &ur.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return models.UserRole{}, fmt.Errorf("%s: %w", op, storage.ErrRoleExists)
		}
		return models.UserRole{}, fmt.Errorf("%s: %w", op, err)
	}

	return ur, nil
}

func (r *RoleRepo) RemoveRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	const op = "repository.RoleRepo.RemoveRole"

	query, args, err := r.sb.Delete(rolesTable).
		Where(sq.Eq{"user_id": userID, "role": string(role)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrRoleNotFound)
	}

	return nil
}

func (r *RoleRepo) ListRoles(ctx context.Context) ([]models.UserRole, error) {
	const op = "repository.RoleRepo.ListRoles"

	query, args, err := r.sb.Select("id", "user_id", "role", "created_at").
		From(rolesTable).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.UserRole
	for rows.Next() {
		var ur models.UserRole
		if err := rows.Scan(&ur.ID, &ur.UserID, &ur.Role, &ur.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, ur)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
