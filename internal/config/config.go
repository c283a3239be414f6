package config

import (
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	CorsConfig
	OAuthConfig
	ClientConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type OAuthConfig interface {
	GetAuthSecret() string
	GetIssuer() string
	GetAudience() string
	GetRefreshTokenLength() int
	GetDefaultAccessTokenExpiry() time.Duration
	GetDefaultRefreshTokenExpiry() time.Duration
	GetRotateRefreshTokens() bool
	GetBootstrapSubject() string
	GetBootstrapRole() string
	GetBootstrapClientID() string
}

type ClientConfig interface {
	GetAPIURL() string
	GetAuthURL() string
	GetClientID() string
	GetCredentialsFile() string
	GetRenewalTimeout() time.Duration
	GetExchangeMode() string
}

type mainConfig struct {
	EnvVars
	Cors
	OAuth
	Client
}

func New() Config {
	return mainConfig{}
}

// Load reads .env and then the environment specific file (.env.dev or .env.prod).
// Variables already set in the environment win. Missing files are ignored.
func Load() {
	_ = godotenv.Load(".env")
	switch (EnvVars{}).GetEnv() {
	case EnvProd:
		_ = godotenv.Load(".env.prod")
	default:
		_ = godotenv.Load(".env.dev")
	}
}
