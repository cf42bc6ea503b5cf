package jwt

import (
	"errors"
	"fmt"
	"time"

	"contractor_site/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongKind    = errors.New("wrong token kind")
)

type Claims struct {
	UserID string        `json:"uid"`
	Email  string        `json:"email"`
	Roles  []models.Role `json:"roles,omitempty"`
	Kind   Kind          `json:"typ"`
	jwt.RegisteredClaims
}

// NewToken signs an HS256 token for user. Roles are embedded so a session
// does not need to reload them on every request.
func NewToken(user models.User, roles []models.Role, kind Kind, secret string, duration time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Roles:  roles,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

// Parse verifies signature, expiry and kind.
func Parse(tokenString, secret string, kind Kind) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrWrongKind
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, fmt.Errorf("%w: bad uid", ErrInvalidToken)
	}

	return claims, nil
}

func (c *Claims) UID() uuid.UUID {
	id, _ := uuid.Parse(c.UserID)
	return id
}
