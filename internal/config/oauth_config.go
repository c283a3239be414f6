package config

import "time"

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetAuthSecret is the master secret the token signing key is derived from.
func (OAuth) GetAuthSecret() string {
	return GetEnv("AUTH_SECRET", "")
}

func (OAuth) GetIssuer() string {
	return GetEnv("TOKEN_ISSUER", EnvVars{}.GetBaseURL())
}

func (OAuth) GetAudience() string {
	return GetEnv("TOKEN_AUDIENCE", "portfolio-api")
}

func (OAuth) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

func (OAuth) GetDefaultAccessTokenExpiry() time.Duration {
	return GetDurationEnv("ACCESS_TOKEN_EXPIRY", 15*time.Minute)
}

func (OAuth) GetDefaultRefreshTokenExpiry() time.Duration {
	return GetDurationEnv("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour) // 7 days
}

func (OAuth) GetRotateRefreshTokens() bool {
	return GetBoolEnv("ROTATE_REFRESH_TOKENS", false)
}

// GetBootstrapSubject names the subject a credential pair is issued for at start-up.
// Empty disables bootstrapping.
func (OAuth) GetBootstrapSubject() string {
	return GetEnv("BOOTSTRAP_SUBJECT", "")
}

func (OAuth) GetBootstrapRole() string {
	return GetEnv("BOOTSTRAP_ROLE", "admin")
}

func (OAuth) GetBootstrapClientID() string {
	return GetEnv("BOOTSTRAP_CLIENT_ID", "portfolioctl")
}
