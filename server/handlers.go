package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	autherrors "github.com/jrsteele09/go-portfolio-session/internal/errors"
	"github.com/jrsteele09/go-portfolio-session/internal/utils"
	"github.com/jrsteele09/go-portfolio-session/oauth2"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	maxBodyBytes    = 1 << 20
)

// RefreshHandler exchanges a refresh token for a new access token.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req oauth2.RefreshRequest
		if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
			writeJSONError(w, oauth2.ErrorCodeInvalidRequest, "refresh_token is required", http.StatusBadRequest)
			return
		}

		tokenResponse, err := s.tokens.Refresh(req.RefreshToken, "")
		if err != nil {
			status, code := refreshErrorStatus(err)
			log.Debug().Err(err).Msg("refresh rejected")
			writeJSONError(w, code, rootCause(err).Error(), status)
			return
		}
		writeTokenResponse(w, tokenResponse)
	}
}

// VerifyHandler reports whether an access token is valid. The token is read from the
// JSON body, falling back to the Authorization header.
func (s *Server) VerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req oauth2.VerifyRequest
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeJSONError(w, oauth2.ErrorCodeInvalidRequest, "malformed request body", http.StatusBadRequest)
			return
		}
		if req.Token == "" {
			req.Token, _ = bearerToken(r)
		}

		claims, err := s.tokens.Verify(req.Token)
		if err != nil || !claims.Active {
			writeJSON(w, http.StatusUnauthorized, oauth2.VerifyResponse{Valid: false})
			return
		}
		writeJSON(w, http.StatusOK, oauth2.VerifyResponse{
			Valid:     true,
			Subject:   utils.Value(claims.Sub),
			Role:      claims.Role,
			ClientID:  claims.ClientID,
			ExpiresAt: utils.Value(claims.Exp),
		})
	}
}

// LogoutHandler deletes the refresh token in the body and revokes the bearer access token.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req oauth2.LogoutRequest
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeJSONError(w, oauth2.ErrorCodeInvalidRequest, "malformed request body", http.StatusBadRequest)
			return
		}
		accessToken, _ := bearerToken(r)
		if req.RefreshToken == "" && accessToken == "" {
			writeJSONError(w, oauth2.ErrorCodeInvalidRequest, "nothing to log out", http.StatusBadRequest)
			return
		}

		if err := s.tokens.Logout(req.RefreshToken, accessToken); err != nil {
			log.Error().Err(err).Msg("logout failed")
			writeJSONError(w, oauth2.ErrorCodeServerError, "logout failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// MeHandler returns the claims of the bearer token. It must run behind RequireBearer.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			unauthorized(w, "Missing token claims")
			return
		}
		writeJSON(w, http.StatusOK, claims)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func refreshErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, autherrors.ErrInvalidRefreshToken),
		errors.Is(err, autherrors.ErrRefreshTokenExpired),
		errors.Is(err, autherrors.ErrInvalidClient):
		return http.StatusUnauthorized, oauth2.ErrorCodeInvalidGrant
	default:
		return http.StatusInternalServerError, oauth2.ErrorCodeServerError
	}
}

// rootCause strips wrapping context so internal call sites never reach a response body.
func rootCause(err error) error {
	for _, sentinel := range []error{
		autherrors.ErrInvalidRefreshToken,
		autherrors.ErrRefreshTokenExpired,
		autherrors.ErrInvalidClient,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return autherrors.ErrInternal
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeTokenResponse(w http.ResponseWriter, tokenResponse *oauth2.TokenResponse) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	writeJSON(w, http.StatusOK, tokenResponse)
}

func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	writeJSON(w, statusCode, oauth2.ErrorResponse{
		Error:            errorCode,
		ErrorDescription: description,
	})
}
