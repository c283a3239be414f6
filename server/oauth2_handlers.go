package server

import (
	"errors"
	"net/http"

	"github.com/jrsteele09/go-portfolio-session/clients"
	"github.com/jrsteele09/go-portfolio-session/oauth2"
	"github.com/rs/zerolog/log"
)

// WellKnownOpenIDConfig serves the OIDC discovery document
func (s *Server) WellKnownOpenIDConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		issuer := s.config.GetIssuer()

		resp := map[string]any{
			"issuer":         issuer,
			"token_endpoint": issuer + RouteOAuth2Token,

			"response_types_supported": []string{"token"},
			"subject_types_supported":  []string{"public"},

			// Signing algorithms
			"id_token_signing_alg_values_supported": []string{"HS256"},

			// Public clients send only client_id
			"token_endpoint_auth_methods_supported": []string{"none"},

			"grant_types_supported": []string{string(oauth2.RefreshTokenGrant)},

			"claims_supported": []string{"sub", "role", "client_id", "iss", "aud", "exp", "iat", "jti"},
		}

		w.Header().Set("Cache-Control", "public, max-age=3600") // Cache for 1 hour
		writeJSON(w, http.StatusOK, resp)
	}
}

// Token implements the OAuth2 token endpoint for the refresh_token grant.
func (s *Server) Token() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, oauth2.ErrorCodeInvalidRequest, "Failed to parse form data", http.StatusBadRequest)
			return
		}

		grantType := oauth2.GrantType(r.PostForm.Get("grant_type"))
		if grantType != oauth2.RefreshTokenGrant {
			writeJSONError(w, oauth2.ErrorCodeUnsupportedGrantType, "only refresh_token is supported", http.StatusBadRequest)
			return
		}

		refreshToken := r.PostForm.Get("refresh_token")
		if refreshToken == "" {
			writeJSONError(w, oauth2.ErrorCodeInvalidRequest, "refresh_token parameter is required", http.StatusBadRequest)
			return
		}

		clientID := r.PostForm.Get("client_id")
		client, err := s.clients.Get(clientID)
		if err != nil {
			writeJSONError(w, oauth2.ErrorCodeInvalidClient, "unknown client", http.StatusUnauthorized)
			return
		}
		if err := client.Authorize(grantType, r.PostForm.Get("scope")); err != nil {
			code := oauth2.ErrorCodeUnauthorizedClient
			if errors.Is(err, clients.ErrInvalidScope) {
				code = oauth2.ErrorCodeInvalidScope
			}
			writeJSONError(w, code, err.Error(), http.StatusBadRequest)
			return
		}

		tokenResponse, err := s.tokens.Refresh(refreshToken, client.ID)
		if err != nil {
			status, code := refreshErrorStatus(err)
			if status == http.StatusUnauthorized {
				// RFC 6749 §5.2 reports invalid_grant with 400
				status = http.StatusBadRequest
			}
			log.Debug().Err(err).Msg("token grant rejected")
			writeJSONError(w, code, rootCause(err).Error(), status)
			return
		}
		writeTokenResponse(w, tokenResponse)
	}
}
