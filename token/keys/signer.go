package keys

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-portfolio-session/internal/errors"
	"golang.org/x/crypto/hkdf"
)

const hmacKeyLength = 32

// Signer is an interface for signing and verifying JWT tokens
type Signer interface {
	// Sign creates a signed JWT token from claims
	Sign(claims jwt.MapClaims) (string, error)

	// GetVerificationKey is a jwt.Keyfunc returning the key that verifies token
	GetVerificationKey(token *jwt.Token) (any, error)

	// GetSigningMethod returns the JWT signing method used
	GetSigningMethod() jwt.SigningMethod
}

var _ Signer = (*HMACSigner)(nil)

// HMACSigner implements Signer using symmetric HMAC-SHA256
type HMACSigner struct {
	key []byte
}

// DeriveHMACSigner expands the configured secret into a dedicated HS256 key with HKDF.
// info separates keys derived from the same secret for different purposes.
func DeriveHMACSigner(secret, info string) (*HMACSigner, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.ErrMissingSecret
	}
	key := make([]byte, hmacKeyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	return &HMACSigner{key: key}, nil
}

func (h *HMACSigner) Sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(h.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token with HMAC: %w", err)
	}
	return signedToken, nil
}

func (h *HMACSigner) GetVerificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.key, nil
}

func (h *HMACSigner) GetSigningMethod() jwt.SigningMethod {
	return jwt.SigningMethodHS256
}
