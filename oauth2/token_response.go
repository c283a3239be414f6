package oauth2

// TokenResponse is the body returned by the refresh and token endpoints (RFC 6749 §5.1).
type TokenResponse struct {
	// AccessToken is the bearer credential sent as "Authorization: Bearer <access_token>".
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the access token lifetime in seconds. The JWT exp claim is authoritative.
	ExpiresIn int `json:"expires_in,omitempty"`

	// RefreshToken is only present when the refresh token was rotated.
	RefreshToken string `json:"refresh_token,omitempty"`

	Scope string `json:"scope,omitempty"`
}

// RefreshRequest is the JSON body of POST /api/v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest is the JSON body of POST /api/v1/auth/logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// VerifyRequest carries a token to check. The Authorization header is used when Token is empty.
type VerifyRequest struct {
	Token string `json:"token,omitempty"`
}

// VerifyResponse describes an access token.
type VerifyResponse struct {
	Valid     bool   `json:"valid"`
	Subject   string `json:"sub,omitempty"`
	Role      string `json:"role,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

// ErrorResponse is the error body shared by every endpoint of the auth service.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
