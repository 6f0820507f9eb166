package dto

// Identifier carries either the email or the username; the original client
// posts it under "email" either way.
type LoginRequest struct {
	Identifier string `json:"email" validate:"required,max=254"`
	Password   string `json:"password" validate:"required"`
}

type LoginResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}
