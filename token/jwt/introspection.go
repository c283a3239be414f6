package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-portfolio-session/internal/config"
	autherrors "github.com/jrsteele09/go-portfolio-session/internal/errors"
	"github.com/jrsteele09/go-portfolio-session/token/keys"
)

// TokenIntrospection represents the metadata of an access token.
// When Active is false the other fields may not be populated.
type TokenIntrospection struct {
	Active    bool    `json:"active"`
	Sub       *string `json:"sub,omitempty"`
	Role      string  `json:"role,omitempty"`
	ClientID  string  `json:"client_id,omitempty"`
	Aud       *string `json:"aud,omitempty"`
	Iss       *string `json:"iss,omitempty"`
	Exp       *int64  `json:"exp,omitempty"`
	Iat       *int64  `json:"iat,omitempty"`
	JTI       string  `json:"jti,omitempty"`
	TokenType string  `json:"token_type,omitempty"`
}

// RevokedChecker is an interface for checking if a token has been revoked
type RevokedChecker interface {
	IsRevoked(jti string) bool
}

// Inspector handles JWT token introspection and validation
type Inspector struct {
	config         config.OAuthConfig
	signer         keys.Signer
	revokedChecker RevokedChecker
}

// NewInspector creates a new JWT inspector
func NewInspector(cfg config.OAuthConfig, signer keys.Signer, revokedChecker RevokedChecker) *Inspector {
	return &Inspector{
		config:         cfg,
		signer:         signer,
		revokedChecker: revokedChecker,
	}
}

// Introspect validates rawToken. Inactive tokens come back with Active false and an error
// matching ErrInvalidToken, ErrTokenExpired or ErrTokenRevoked.
func (i *Inspector) Introspect(rawToken string) (*TokenIntrospection, error) {
	if strings.TrimSpace(rawToken) == "" {
		return &TokenIntrospection{Active: false}, autherrors.ErrInvalidToken
	}

	claims, err := i.parse(rawToken)
	if err != nil {
		return &TokenIntrospection{Active: false}, err
	}

	iss, _ := claims["iss"].(string)
	sub, _ := claims["sub"].(string)
	aud, _ := claims["aud"].(string)
	role, _ := claims["role"].(string)
	clientID, _ := claims["client_id"].(string)
	tokenType, _ := claims["token_type"].(string)
	jti, _ := claims["jti"].(string)
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)

	iatInt := int64(iat)
	expInt := int64(exp)

	introspection := &TokenIntrospection{
		Active:    true,
		Sub:       &sub,
		Role:      role,
		ClientID:  clientID,
		Aud:       &aud,
		Iss:       &iss,
		Exp:       &expInt,
		Iat:       &iatInt,
		JTI:       jti,
		TokenType: tokenType,
	}

	if tokenType != TokenTypeAccess {
		introspection.Active = false
		return introspection, autherrors.Wrapf(autherrors.ErrInvalidToken, "unexpected token type %q", tokenType)
	}

	// Check if token has been revoked
	if jti != "" && i.revokedChecker != nil && i.revokedChecker.IsRevoked(jti) {
		introspection.Active = false
		return introspection, autherrors.ErrTokenRevoked
	}

	return introspection, nil
}

// ParseAndExtractJTI returns the jti and expiry of a valid token, used to revoke it.
func (i *Inspector) ParseAndExtractJTI(rawToken string) (jti string, exp time.Time, err error) {
	claims, err := i.parse(rawToken)
	if err != nil {
		return "", time.Time{}, err
	}

	jtiClaim, ok := claims["jti"].(string)
	if !ok || jtiClaim == "" {
		return "", time.Time{}, errors.New("token missing jti claim")
	}

	expClaim, err := claims.GetExpirationTime()
	if err != nil || expClaim == nil {
		return "", time.Time{}, errors.New("token missing exp claim")
	}
	return jtiClaim, expClaim.Time, nil
}

func (i *Inspector) parse(rawToken string) (jwtlib.MapClaims, error) {
	token, err := jwtlib.ParseWithClaims(rawToken, jwtlib.MapClaims{}, i.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwtlib.WithIssuer(i.config.GetIssuer()),
		jwtlib.WithAudience(i.config.GetAudience()),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	switch {
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return nil, autherrors.ErrTokenExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %w", autherrors.ErrInvalidToken, err)
	case !token.Valid:
		return nil, autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("error extracting claims from token")
	}
	return claims, nil
}
