package config

import "time"

const (
	ExchangeModeJSON   = "json"
	ExchangeModeOAuth2 = "oauth2"
)

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetAPIURL() string {
	return GetEnv("PORTFOLIO_API_URL", "http://localhost:8081")
}

func (Client) GetAuthURL() string {
	return GetEnv("PORTFOLIO_AUTH_URL", "http://localhost:8080")
}

func (Client) GetClientID() string {
	return GetEnv("PORTFOLIO_CLIENT_ID", "portfolioctl")
}

// GetCredentialsFile returns an explicit credentials file, or "" for the default location.
func (Client) GetCredentialsFile() string {
	return GetEnv("PORTFOLIO_CREDENTIALS_FILE", "")
}

func (Client) GetRenewalTimeout() time.Duration {
	return GetDurationEnv("PORTFOLIO_RENEWAL_TIMEOUT", 30*time.Second)
}

// GetExchangeMode selects the refresh endpoint flavour: "json" or "oauth2".
func (Client) GetExchangeMode() string {
	return GetEnv("PORTFOLIO_EXCHANGE_MODE", ExchangeModeJSON)
}
