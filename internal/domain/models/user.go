package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Password  []byte    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	LastLogin time.Time `db:"last_login,omitempty" json:"last_login,omitempty"`
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleSales Role = "sales"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSales, RoleUser:
		return true
	}
	return false
}

// UserRole grants a capability level to an authenticated identity.
type UserRole struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type UserWithRoles struct {
	User
	Roles []Role `json:"roles"`
}
