package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/lib/logger/sl"
	"contractor_site/internal/repository"
	"contractor_site/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrRoleExists   = errors.New("user already has this role")
	ErrRoleNotFound = errors.New("user does not have this role")
	ErrInvalidRole  = errors.New("invalid role")
)

// UserService backs the users tab: listing identities and managing role grants.
type UserService struct {
	log   *slog.Logger
	users repository.UserRepository
	roles repository.RoleRepository
}

func NewUserService(log *slog.Logger, users repository.UserRepository, roles repository.RoleRepository) *UserService {
	return &UserService{
		log:   log,
		users: users,
		roles: roles,
	}
}

// ListUsers returns every user with the roles granted to them.
func (s *UserService) ListUsers(ctx context.Context) ([]models.UserWithRoles, error) {
	const op = "user_service.ListUsers"

	log := s.log.With(slog.String("op", op))

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	grants, err := s.roles.ListRoles(ctx)
	if err != nil {
		log.Error("failed to list roles", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byUser := make(map[uuid.UUID][]models.Role, len(users))
	for _, g := range grants {
		byUser[g.UserID] = append(byUser[g.UserID], g.Role)
	}

	out := make([]models.UserWithRoles, 0, len(users))
	for _, u := range users {
		roles := byUser[u.ID]
		if roles == nil {
			roles = []models.Role{}
		}
		out = append(out, models.UserWithRoles{User: u, Roles: roles})
	}

	return out, nil
}

// GrantRole adds role to userID. An existing grant is reported as
// ErrRoleExists both by the pre-check and by the unique index.
func (s *UserService) GrantRole(ctx context.Context, userID uuid.UUID, role models.Role) (models.UserRole, error) {
	const op = "user_service.GrantRole"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("role", string(role)),
	)

	if !role.Valid() {
		return models.UserRole{}, fmt.Errorf("%s: %w", op, ErrInvalidRole)
	}

	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.UserRole{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to get user", sl.Err(err))
		return models.UserRole{}, fmt.Errorf("%s: %w", op, err)
	}

	has, err := s.roles.HasRole(ctx, userID, role)
	if err != nil {
		log.Error("failed to check role", sl.Err(err))
		return models.UserRole{}, fmt.Errorf("%s: %w", op, err)
	}
	if has {
		return models.UserRole{}, fmt.Errorf("%s: %w", op, ErrRoleExists)
	}

	grant, err := s.roles.AddRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, storage.ErrRoleExists) {
			return models.UserRole{}, fmt.Errorf("%s: %w", op, ErrRoleExists)
		}
		log.Error("failed to add role", sl.Err(err))
		return models.UserRole{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("role granted")

	return grant, nil
}

func (s *UserService) RevokeRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	const op = "user_service.RevokeRole"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("role", string(role)),
	)

	if !role.Valid() {
		return fmt.Errorf("%s: %w", op, ErrInvalidRole)
	}

	if err := s.roles.RemoveRole(ctx, userID, role); err != nil {
		if errors.Is(err, storage.ErrRoleNotFound) {
			return fmt.Errorf("%s: %w", op, ErrRoleNotFound)
		}
		log.Error("failed to remove role", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("role revoked")

	return nil
}
