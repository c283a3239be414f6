package server

import (
	"fmt"

	"github.com/jrsteele09/go-portfolio-session/clients"
	clientrepofake "github.com/jrsteele09/go-portfolio-session/clients/repofake"
	"github.com/jrsteele09/go-portfolio-session/internal/config"
	"github.com/jrsteele09/go-portfolio-session/oauth2"
	"github.com/jrsteele09/go-portfolio-session/token"
	"github.com/jrsteele09/go-portfolio-session/token/keys"
	"github.com/rs/zerolog/log"
	refreshrepofake "github.com/jrsteele09/go-portfolio-session/token/refresh/repofake"
)

// accessTokenKeyInfo separates the access token key from anything else derived from AUTH_SECRET.
const accessTokenKeyInfo = "portfolio-auth/access-token/v1"

// NewTokenManager builds the token manager from configuration: an HMAC key derived from
// AUTH_SECRET and an in-memory refresh token store.
func NewTokenManager(cfg config.Config) (*token.Manager, error) {
	signer, err := keys.DeriveHMACSigner(cfg.GetAuthSecret(), accessTokenKeyInfo)
	if err != nil {
		return nil, fmt.Errorf("[Server NewTokenManager] failed to create signer: %w", err)
	}
	return token.New(cfg, signer, refreshrepofake.NewFakeRefreshTokenRepo()), nil
}

// NewClientRegistry returns an in-memory registry holding the bootstrap client as a
// public client allowed the refresh_token grant.
func NewClientRegistry(cfg config.Config) clients.Repo {
	repo := clientrepofake.NewFakeClientRepo()
	clientID := cfg.GetBootstrapClientID()
	if clientID == "" {
		return repo
	}
	err := repo.Upsert(&clients.Client{
		ID:          clientID,
		Type:        clients.ClientTypePublic,
		Description: "Bootstrap client",
		GrantTypes:  []oauth2.GrantType{oauth2.RefreshTokenGrant},
	})
	if err != nil {
		log.Error().Err(err).Str("client_id", clientID).Msg("failed to register bootstrap client")
	}
	return repo
}
