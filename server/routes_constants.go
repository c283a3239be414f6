package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Exchange JSON API
	RouteAuthRefresh = "/api/v1/auth/refresh"
	RouteAuthVerify  = "/api/v1/auth/verify"
	RouteAuthLogout  = "/api/v1/auth/logout"
	RouteAuthMe      = "/api/v1/auth/me"

	// OAuth2 / OIDC Routes
	RouteWellKnownOpenIDConfig = "/.well-known/openid-configuration"
	RouteOAuth2Token           = "/oauth2/token"

	RouteHealth = "/healthz"
)
