package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/lib/logger/sl"
	"contractor_site/internal/repository"
	redisapp "contractor_site/internal/storage/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error {
	args := m.Called(ctx, userID, token, exp)
	return args.Error(0)
}

func (m *MockTokenRepository) TakeRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	args := m.Called(ctx, userID, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenRepository) DeleteAllUserTokens(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

const testSecret = "test-secret"

var (
	testUser = models.User{
		ID:    uuid.MustParse("123e4567-e89b-12d3-a456-426614174000"),
		Email: "test@example.com",
	}
	testCtx = context.Background()
)

func newTestService(repo *MockTokenRepository) *TokenService {
	return NewTokenService(sl.Discard(), repo, testSecret, 15*time.Minute, 24*time.Hour)
}

func TestGenerateTokens_Success(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newTestService(repo)

	repo.On("SaveRefreshToken", testCtx, testUser.ID.String(), mock.Anything, 24*time.Hour).
		Return(nil)

	tokens, err := service.GenerateTokens(testCtx, testUser, []models.Role{models.RoleAdmin})

	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, testUser.ID, tokens.UserID)
	assert.Equal(t, []models.Role{models.RoleAdmin}, tokens.Roles)

	claims, err := service.ParseAccess(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleAdmin}, claims.Roles)

	_, err = service.ParseAccess(tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "refresh token is not an access token")
	repo.AssertExpectations(t)
}

func TestGenerateTokens_RepoError(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newTestService(repo)

	expectedErr := errors.New("storage error")
	repo.On("SaveRefreshToken", testCtx, testUser.ID.String(), mock.Anything, mock.Anything).
		Return(expectedErr)

	tokens, err := service.GenerateTokens(testCtx, testUser, nil)

	assert.ErrorIs(t, err, expectedErr)
	assert.Nil(t, tokens)
	repo.AssertExpectations(t)
}

func TestConsumeRefreshToken_Success(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newTestService(repo)

	repo.On("SaveRefreshToken", testCtx, testUser.ID.String(), mock.Anything, mock.Anything).Return(nil)
	tokens, err := service.GenerateTokens(testCtx, testUser, nil)
	require.NoError(t, err)

	repo.On("TakeRefreshToken", testCtx, testUser.ID.String(), tokens.RefreshToken).Return(true, nil)

	userID, err := service.ConsumeRefreshToken(testCtx, tokens.RefreshToken)

	require.NoError(t, err)
	assert.Equal(t, testUser.ID, userID)
	repo.AssertExpectations(t)
}

func TestConsumeRefreshToken_NotInStorage(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newTestService(repo)

	repo.On("SaveRefreshToken", testCtx, testUser.ID.String(), mock.Anything, mock.Anything).Return(nil)
	tokens, err := service.GenerateTokens(testCtx, testUser, nil)
	require.NoError(t, err)

	repo.On("TakeRefreshToken", testCtx, testUser.ID.String(), tokens.RefreshToken).Return(false, nil)

	_, err = service.ConsumeRefreshToken(testCtx, tokens.RefreshToken)

	assert.ErrorIs(t, err, ErrTokenNotInStorage)
	repo.AssertExpectations(t)
}

func TestConsumeRefreshToken_Invalid(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newTestService(repo)

	_, err := service.ConsumeRefreshToken(testCtx, "invalid.token.string")

	assert.ErrorIs(t, err, ErrInvalidToken)
	repo.AssertNotCalled(t, "TakeRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsumeRefreshToken_RejectsAccessToken(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newTestService(repo)

	repo.On("SaveRefreshToken", testCtx, testUser.ID.String(), mock.Anything, mock.Anything).Return(nil)
	tokens, err := service.GenerateTokens(testCtx, testUser, nil)
	require.NoError(t, err)

	_, err = service.ConsumeRefreshToken(testCtx, tokens.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeAll(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newTestService(repo)

	repo.On("DeleteAllUserTokens", testCtx, testUser.ID.String()).Return(nil)

	assert.NoError(t, service.RevokeAll(testCtx, testUser.ID))
	repo.AssertExpectations(t)
}

func TestConsumeRefreshToken_ConcurrentUseSucceedsOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	service := NewTokenService(sl.Discard(), repository.NewRedisTokenRepo(redisapp.Wrap(rdb)), testSecret, 15*time.Minute, 24*time.Hour)

	tokens, err := service.GenerateTokens(testCtx, testUser, nil)
	require.NoError(t, err)

	const workers = 8
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		start     = make(chan struct{})
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := service.ConsumeRefreshToken(testCtx, tokens.RefreshToken); err == nil {
				succeeded.Add(1)
			} else {
				assert.ErrorIs(t, err, ErrTokenNotInStorage)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
}
