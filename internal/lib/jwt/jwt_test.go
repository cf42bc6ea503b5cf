package jwt

import (
	"testing"
	"time"

	"contractor_site/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestNewTokenAndParse(t *testing.T) {
	user := models.User{ID: uuid.New(), Email: "admin@example.com"}
	roles := []models.Role{models.RoleAdmin}

	token, err := NewToken(user, roles, KindAccess, secret, time.Minute)
	require.NoError(t, err)

	claims, err := Parse(token, secret, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UID())
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, roles, claims.Roles)
}

func TestParse_Rejects(t *testing.T) {
	user := models.User{ID: uuid.New(), Email: "a@example.com"}

	access, err := NewToken(user, nil, KindAccess, secret, time.Minute)
	require.NoError(t, err)
	expired, err := NewToken(user, nil, KindAccess, secret, -time.Minute)
	require.NoError(t, err)

	_, err = Parse(access, "other-secret", KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = Parse(expired, secret, KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = Parse(access, secret, KindRefresh)
	assert.ErrorIs(t, err, ErrWrongKind)

	_, err = Parse("garbage", secret, KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewToken_Unique(t *testing.T) {
	user := models.User{ID: uuid.New()}

	a, err := NewToken(user, nil, KindRefresh, secret, time.Hour)
	require.NoError(t, err)
	b, err := NewToken(user, nil, KindRefresh, secret, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
