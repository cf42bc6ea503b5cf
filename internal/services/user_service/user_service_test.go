package services

import (
	"context"
	"errors"
	"testing"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/lib/logger/sl"
	"contractor_site/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, email string, passHash []byte) (uuid.UUID, error) {
	args := m.Called(ctx, email, passHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) UserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) RolesForUser(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	args := m.Called(ctx, userID)
	roles, _ := args.Get(0).([]models.Role)
	return roles, args.Error(1)
}

func (m *MockRoleRepository) HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error) {
	args := m.Called(ctx, userID, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleRepository) AddRole(ctx context.Context, userID uuid.UUID, role models.Role) (models.UserRole, error) {
	args := m.Called(ctx, userID, role)
	return args.Get(0).(models.UserRole), args.Error(1)
}

func (m *MockRoleRepository) RemoveRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	return m.Called(ctx, userID, role).Error(0)
}

func (m *MockRoleRepository) ListRoles(ctx context.Context) ([]models.UserRole, error) {
	args := m.Called(ctx)
	roles, _ := args.Get(0).([]models.UserRole)
	return roles, args.Error(1)
}

var testCtx = context.Background()

func newUserService() (*UserService, *MockUserRepository, *MockRoleRepository) {
	users := new(MockUserRepository)
	roles := new(MockRoleRepository)
	return NewUserService(sl.Discard(), users, roles), users, roles
}

func TestListUsers_AttachesRoles(t *testing.T) {
	svc, users, roles := newUserService()
	alice := models.User{ID: uuid.New(), Email: "alice@example.com"}
	bob := models.User{ID: uuid.New(), Email: "bob@example.com"}

	users.On("ListUsers", testCtx).Return([]models.User{alice, bob}, nil)
	roles.On("ListRoles", testCtx).Return([]models.UserRole{
		{UserID: alice.ID, Role: models.RoleAdmin},
		{UserID: alice.ID, Role: models.RoleSales},
	}, nil)

	got, err := svc.ListUsers(testCtx)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []models.Role{models.RoleAdmin, models.RoleSales}, got[0].Roles)
	assert.Equal(t, []models.Role{}, got[1].Roles)
}

func TestGrantRole(t *testing.T) {
	userID := uuid.New()
	user := models.User{ID: userID}

	t.Run("success", func(t *testing.T) {
		svc, users, roles := newUserService()
		grant := models.UserRole{ID: uuid.New(), UserID: userID, Role: models.RoleSales}

		users.On("GetUserByID", testCtx, userID).Return(user, nil)
		roles.On("HasRole", testCtx, userID, models.RoleSales).Return(false, nil)
		roles.On("AddRole", testCtx, userID, models.RoleSales).Return(grant, nil).Once()

		got, err := svc.GrantRole(testCtx, userID, models.RoleSales)

		require.NoError(t, err)
		assert.Equal(t, grant, got)
		roles.AssertExpectations(t)
	})

	t.Run("pre-check finds existing grant", func(t *testing.T) {
		svc, users, roles := newUserService()
		users.On("GetUserByID", testCtx, userID).Return(user, nil)
		roles.On("HasRole", testCtx, userID, models.RoleAdmin).Return(true, nil)

		_, err := svc.GrantRole(testCtx, userID, models.RoleAdmin)

		assert.ErrorIs(t, err, ErrRoleExists)
		roles.AssertNotCalled(t, "AddRole", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unique index race", func(t *testing.T) {
		svc, users, roles := newUserService()
		users.On("GetUserByID", testCtx, userID).Return(user, nil)
		roles.On("HasRole", testCtx, userID, models.RoleAdmin).Return(false, nil)
		roles.On("AddRole", testCtx, userID, models.RoleAdmin).Return(models.UserRole{}, storage.ErrRoleExists)

		_, err := svc.GrantRole(testCtx, userID, models.RoleAdmin)

		assert.ErrorIs(t, err, ErrRoleExists)
	})

	t.Run("invalid role", func(t *testing.T) {
		svc, users, _ := newUserService()

		_, err := svc.GrantRole(testCtx, userID, models.Role("superuser"))

		assert.ErrorIs(t, err, ErrInvalidRole)
		users.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, users, _ := newUserService()
		users.On("GetUserByID", testCtx, userID).Return(models.User{}, storage.ErrUserNotFound)

		_, err := svc.GrantRole(testCtx, userID, models.RoleAdmin)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestRevokeRole(t *testing.T) {
	userID := uuid.New()

	svc, _, roles := newUserService()
	roles.On("RemoveRole", testCtx, userID, models.RoleAdmin).Return(nil).Once()
	roles.On("RemoveRole", testCtx, userID, models.RoleSales).Return(storage.ErrRoleNotFound).Once()

	assert.NoError(t, svc.RevokeRole(testCtx, userID, models.RoleAdmin))
	assert.ErrorIs(t, svc.RevokeRole(testCtx, userID, models.RoleSales), ErrRoleNotFound)
	roles.AssertExpectations(t)
}

type stubCounts struct {
	projects, posts, leads, unsynced int
	err                              error
}

func (s stubCounts) CountProjects(context.Context) (int, error) { return s.projects, s.err }

func (s stubCounts) GetBlogPosts(_ context.Context, status string, _, _ int) ([]models.BlogPost, int, error) {
	if status != models.PostStatusPublished {
		return nil, 0, errors.New("unexpected status " + status)
	}
	return nil, s.posts, nil
}

func (s stubCounts) CountLeads(context.Context) (int, int, error) { return s.leads, s.unsynced, nil }

func TestOverview(t *testing.T) {
	counts := stubCounts{projects: 12, posts: 4, leads: 30, unsynced: 2}
	svc := NewOverviewService(sl.Discard(), counts, counts, counts)

	got, err := svc.Overview(testCtx)

	require.NoError(t, err)
	assert.Equal(t, Overview{Projects: 12, PublishedPosts: 4, Leads: 30, UnsyncedLeads: 2}, got)

	failing := stubCounts{err: errors.New("db down")}
	_, err = NewOverviewService(sl.Discard(), failing, failing, failing).Overview(testCtx)
	assert.Error(t, err)
}
