package request

type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// RefreshRequest may be empty when the refresh token travels in the session cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
