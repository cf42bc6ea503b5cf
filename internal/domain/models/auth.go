package models

import "github.com/google/uuid"

type TokenPair struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Roles        []Role    `json:"roles"`
}
