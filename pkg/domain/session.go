package domain

// AuthTokens is the token pair returned by the register, login and refresh endpoints.
// RefreshToken is empty when the server does not rotate it.
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Credentials is the payload for the register and login endpoints.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
