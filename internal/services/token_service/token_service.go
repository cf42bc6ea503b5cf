package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/lib/jwt"
	"contractor_site/internal/lib/logger/sl"
	"contractor_site/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenNotInStorage = errors.New("token not found in storage")
)

// TokenService issues access/refresh pairs and rotates refresh tokens.
// A refresh token is valid only while its key is present in the token store.
type TokenService struct {
	log        *slog.Logger
	repo       repository.TokenRepository
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(log *slog.Logger, repo repository.TokenRepository, secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		log:        log,
		repo:       repo,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

func (s *TokenService) GenerateTokens(ctx context.Context, user models.User, roles []models.Role) (*models.TokenPair, error) {
	const op = "token_service.GenerateTokens"

	log := s.log.With(slog.String("op", op), slog.String("user_id", user.ID.String()))

	accessToken, err := jwt.NewToken(user, roles, jwt.KindAccess, s.secret, s.accessTTL)
	if err != nil {
		log.Error("failed to sign access token", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := jwt.NewToken(user, nil, jwt.KindRefresh, s.secret, s.refreshTTL)
	if err != nil {
		log.Error("failed to sign refresh token", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID.String(), refreshToken, s.refreshTTL); err != nil {
		log.Error("failed to store refresh token", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if roles == nil {
		roles = []models.Role{}
	}

	return &models.TokenPair{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Roles:        roles,
	}, nil
}

// ConsumeRefreshToken verifies a refresh token and removes it from the store,
// so each refresh token can be exchanged exactly once.
func (s *TokenService) ConsumeRefreshToken(ctx context.Context, refreshToken string) (uuid.UUID, error) {
	const op = "token_service.ConsumeRefreshToken"

	claims, err := jwt.Parse(refreshToken, s.secret, jwt.KindRefresh)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	taken, err := s.repo.TakeRefreshToken(ctx, claims.UserID, refreshToken)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	if !taken {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenNotInStorage)
	}

	return claims.UID(), nil
}

func (s *TokenService) ParseAccess(accessToken string) (*jwt.Claims, error) {
	claims, err := jwt.Parse(accessToken, s.secret, jwt.KindAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func (s *TokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	const op = "token_service.RevokeAll"

	if err := s.repo.DeleteAllUserTokens(ctx, userID.String()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
