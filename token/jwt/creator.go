package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-portfolio-session/internal/config"
	"github.com/jrsteele09/go-portfolio-session/token/keys"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// TokenTypeAccess is the token_type claim of every access token.
const TokenTypeAccess = "access"

// Creator handles access token creation
type Creator struct {
	config config.OAuthConfig
	signer keys.Signer
}

// NewCreator creates a new JWT creator
func NewCreator(cfg config.OAuthConfig, signer keys.Signer) *Creator {
	return &Creator{
		config: cfg,
		signer: signer,
	}
}

// CreateAccessToken creates a signed access token for subject.
func (c *Creator) CreateAccessToken(subject, role, clientID string) (*string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"iss":        c.config.GetIssuer(),
		"aud":        c.config.GetAudience(),
		"sub":        subject,
		"role":       role,
		"client_id":  clientID,
		"token_type": TokenTypeAccess,
		"iat":        now.Unix(),
		"exp":        now.Add(c.config.GetDefaultAccessTokenExpiry()).Unix(),
		"jti":        uuid.New().String(), // Unique token ID for revocation
	}

	signedToken, err := c.signer.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return &signedToken, nil
}
