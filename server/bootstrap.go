package server

import (
	"fmt"

	"github.com/jrsteele09/go-portfolio-session/internal/config"
	"github.com/jrsteele09/go-portfolio-session/oauth2"
	"github.com/rs/zerolog/log"
)

// Bootstrap issues a credential pair for BOOTSTRAP_SUBJECT. It is the only way the service
// hands out a first pair. Returns nil when no subject is configured.
func (s *Server) Bootstrap() (*oauth2.TokenResponse, error) {
	subject := s.config.GetBootstrapSubject()
	if subject == "" {
		log.Debug().Msg("bootstrap: no subject configured")
		return nil, nil
	}

	pair, err := s.tokens.Issue(subject, s.config.GetBootstrapRole(), s.config.GetBootstrapClientID())
	if err != nil {
		return nil, fmt.Errorf("[Server Bootstrap] failed to issue credentials for %s: %w", subject, err)
	}

	event := log.Info().
		Str("sub", subject).
		Str("role", s.config.GetBootstrapRole()).
		Str("client_id", s.config.GetBootstrapClientID())
	if s.env == config.EnvDev {
		event = event.
			Str("access_token", pair.AccessToken).
			Str("refresh_token", pair.RefreshToken)
	}
	event.Msg("bootstrap: credential pair issued")
	return pair, nil
}
