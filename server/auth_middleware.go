package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-portfolio-session/oauth2"
	"github.com/jrsteele09/go-portfolio-session/token/jwt"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyClaims stores the introspected access token
const ContextKeyClaims ContextKey = "claims"

// TokenVerifier checks an access token. *token.Manager implements it.
type TokenVerifier interface {
	Verify(accessToken string) (*jwt.TokenIntrospection, error)
}

// RequireBearer is middleware that validates a Bearer access token. Any protected API can
// use it; a missing, invalid, expired or revoked token gets a 401 with WWW-Authenticate,
// which is what triggers a session client renewal.
func RequireBearer(verifier TokenVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "Missing or malformed Authorization header")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil || !claims.Active {
				description := "Invalid token"
				if err != nil {
					description = err.Error()
				}
				unauthorized(w, description)
				return
			}

			next(w, r.WithContext(context.WithValue(r.Context(), ContextKeyClaims, claims)))
		}
	}
}

// ClaimsFromContext returns the token claims stored by RequireBearer.
func ClaimsFromContext(ctx context.Context) (*jwt.TokenIntrospection, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*jwt.TokenIntrospection)
	return claims, ok
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	writeJSONError(w, oauth2.ErrorCodeInvalidToken, description, http.StatusUnauthorized)
}
