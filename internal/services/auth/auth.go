package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"contractor_site/internal/domain/access"
	"contractor_site/internal/domain/models"
	"contractor_site/internal/lib/jwt"
	"contractor_site/internal/lib/logger/sl"
	"contractor_site/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExist          = errors.New("user already exist")
	ErrInvalidToken       = errors.New("invalid token")
)

type Auth struct {
	log    *slog.Logger
	users  UserStore
	roles  RoleProvider
	tokens TokenIssuer
}

type UserStore interface {
	SaveUser(ctx context.Context, email string, passHash []byte) (uuid.UUID, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error
}

type RoleProvider interface {
	RolesForUser(ctx context.Context, userID uuid.UUID) ([]models.Role, error)
}

type TokenIssuer interface {
	GenerateTokens(ctx context.Context, user models.User, roles []models.Role) (*models.TokenPair, error)
	ConsumeRefreshToken(ctx context.Context, refreshToken string) (uuid.UUID, error)
	ParseAccess(accessToken string) (*jwt.Claims, error)
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

func New(log *slog.Logger, users UserStore, roles RoleProvider, tokens TokenIssuer) *Auth {
	return &Auth{
		log:    log,
		users:  users,
		roles:  roles,
		tokens: tokens,
	}
}

// SignUp creates an identity with no roles. Roles are granted separately
// from the users tab.
func (a *Auth) SignUp(ctx context.Context, email, password string) (uuid.UUID, error) {
	const op = "auth.SignUp"

	email = normalizeEmail(email)
	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("register user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.users.SaveUser(ctx, email, passHash)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exist", sl.Err(err))
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrUserExist)
		}
		log.Error("failed to save user", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", id.String()))

	return id, nil
}

// SignIn establishes a session. Roles are loaded here once and carried in the
// access token until the next sign-in or refresh.
func (a *Auth) SignIn(ctx context.Context, email, password string) (*models.TokenPair, error) {
	const op = "auth.SignIn"

	email = normalizeEmail(email)
	log := a.log.With(
		slog.String("op", op),
		slog.String("username", email),
	)

	log.Info("attempting to login user")

	user, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := a.establish(ctx, user)
	if err != nil {
		log.Error("failed to establish session", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.users.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warn("failed to record last login", sl.Err(err))
	}

	log.Info("user logged in successfully", slog.Any("roles", pair.Roles))

	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. It counts as a new
// session establishment, so roles are reloaded.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "auth.Refresh"

	log := a.log.With(slog.String("op", op))

	userID, err := a.tokens.ConsumeRefreshToken(ctx, refreshToken)
	if err != nil {
		log.Info("refresh rejected", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
		log.Error("failed to get user", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := a.establish(ctx, user)
	if err != nil {
		log.Error("failed to establish session", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

func (a *Auth) SignOut(ctx context.Context, userID uuid.UUID) error {
	const op = "auth.SignOut"

	if err := a.tokens.RevokeAll(ctx, userID); err != nil {
		a.log.Error("failed to revoke tokens", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SessionFromToken resolves an access token into the session it carries.
func (a *Auth) SessionFromToken(token string) (*access.Session, error) {
	const op = "auth.SessionFromToken"

	claims, err := a.tokens.ParseAccess(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	sess := &access.Session{
		UserID: claims.UID(),
		Email:  claims.Email,
		Roles:  claims.Roles,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	if sess.Roles == nil {
		sess.Roles = []models.Role{}
	}

	return sess, nil
}

func (a *Auth) establish(ctx context.Context, user models.User) (*models.TokenPair, error) {
	roles, err := a.roles.RolesForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	return a.tokens.GenerateTokens(ctx, user, roles)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
