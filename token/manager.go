package token

import (
	"sync"

	"github.com/jrsteele09/go-portfolio-session/internal/config"
	autherrors "github.com/jrsteele09/go-portfolio-session/internal/errors"
	"github.com/jrsteele09/go-portfolio-session/oauth2"
	"github.com/jrsteele09/go-portfolio-session/token/jwt"
	"github.com/jrsteele09/go-portfolio-session/token/keys"
	"github.com/jrsteele09/go-portfolio-session/token/refresh"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Manager issues, renews, verifies and revokes credential pairs.
type Manager struct {
	config       config.OAuthConfig
	creator      *jwt.Creator
	inspector    *jwt.Inspector
	refresh      *refresh.Manager
	revokedCache RevokedTokenCache
	rotate       bool
	refreshLock  sync.Mutex // serialises Refresh so a rotated token is only redeemed once
}

type ManagerOption func(*Manager)

// WithRotation makes every refresh return a new refresh token and invalidate the old one.
func WithRotation(rotate bool) ManagerOption {
	return func(m *Manager) {
		m.rotate = rotate
	}
}

func WithRevokedTokenCache(cache RevokedTokenCache) ManagerOption {
	return func(m *Manager) {
		m.revokedCache = cache
	}
}

func New(cfg config.OAuthConfig, signer keys.Signer, repo refresh.Repo, options ...ManagerOption) *Manager {
	m := &Manager{
		config:       cfg,
		creator:      jwt.NewCreator(cfg, signer),
		refresh:      refresh.NewManager(repo, cfg),
		revokedCache: NewInMemoryRevokedTokenCache(), // Default implementation
		rotate:       cfg.GetRotateRefreshTokens(),
	}

	for _, opt := range options {
		opt(m)
	}

	m.inspector = jwt.NewInspector(cfg, signer, m.revokedCache)
	return m
}

// RevokedTokens exposes the cache so the server can run its cleanup loop.
func (m *Manager) RevokedTokens() RevokedTokenCache {
	return m.revokedCache
}

// Issue creates a new credential pair for subject.
func (m *Manager) Issue(subject, role, clientID string) (*oauth2.TokenResponse, error) {
	accessToken, err := m.creator.CreateAccessToken(subject, role, clientID)
	if err != nil {
		return nil, errors.Wrap(err, "Manager.Issue CreateAccessToken")
	}
	refreshToken, err := m.refresh.Create(clientID, subject, role, "")
	if err != nil {
		return nil, errors.Wrap(err, "Manager.Issue CreateRefreshToken")
	}
	return m.tokenResponse(*accessToken, *refreshToken), nil
}

// Refresh exchanges refreshToken for a new access token. clientID is checked against the
// client the token was issued to when it is not empty.
func (m *Manager) Refresh(refreshToken, clientID string) (*oauth2.TokenResponse, error) {
	m.refreshLock.Lock()
	defer m.refreshLock.Unlock()

	rt, err := m.refresh.Get(refreshToken)
	if err != nil {
		return nil, errors.Wrap(autherrors.ErrInvalidRefreshToken, "Manager.Refresh Get")
	}

	if clientID != "" && clientID != rt.ClientID {
		return nil, errors.Wrapf(autherrors.ErrInvalidClient, "refresh token was not issued to %s", clientID)
	}

	if m.refresh.IsExpired(rt) {
		_ = m.refresh.Delete(refreshToken)
		return nil, errors.Wrap(autherrors.ErrRefreshTokenExpired, "Manager.Refresh")
	}

	accessToken, err := m.creator.CreateAccessToken(rt.Subject, rt.Role, rt.ClientID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create access token")
	}

	if !m.rotate {
		return m.tokenResponse(*accessToken, ""), nil
	}

	newRefreshToken, err := m.refresh.Rotate(rt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to rotate refresh token")
	}
	log.Debug().Str("sub", rt.Subject).Msg("refresh token rotated")
	return m.tokenResponse(*accessToken, *newRefreshToken), nil
}

// Verify introspects an access token.
func (m *Manager) Verify(accessToken string) (*jwt.TokenIntrospection, error) {
	return m.inspector.Introspect(accessToken)
}

// Logout deletes the refresh token and revokes the access token. Either may be empty.
// Unknown or already invalid tokens are ignored.
func (m *Manager) Logout(refreshToken, accessToken string) error {
	if refreshToken != "" {
		if err := m.refresh.Delete(refreshToken); err != nil && !errors.Is(err, autherrors.ErrNotFound) {
			return errors.Wrap(err, "Manager.Logout Delete")
		}
	}
	if accessToken == "" {
		return nil
	}
	jti, exp, err := m.inspector.ParseAndExtractJTI(accessToken)
	if err != nil {
		return nil
	}
	if err := m.revokedCache.Add(jti, exp); err != nil {
		return errors.Wrap(err, "Manager.Logout revoke")
	}
	return nil
}

func (m *Manager) tokenResponse(accessToken, refreshToken string) *oauth2.TokenResponse {
	return &oauth2.TokenResponse{
		AccessToken:  accessToken,
		TokenType:    oauth2.TokenTypeBearer,
		ExpiresIn:    int(m.config.GetDefaultAccessTokenExpiry().Seconds()),
		RefreshToken: refreshToken,
	}
}
