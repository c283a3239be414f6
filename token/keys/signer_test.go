package keys_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-portfolio-session/internal/errors"
	"github.com/jrsteele09/go-portfolio-session/token/keys"
	"github.com/stretchr/testify/require"
)

func TestDeriveHMACSigner(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		_, err := keys.DeriveHMACSigner("  ", "access")
		require.ErrorIs(t, err, errors.ErrMissingSecret)
	})

	signer, err := keys.DeriveHMACSigner("top-secret", "access")
	require.NoError(t, err)

	signed, err := signer.Sign(jwt.MapClaims{"sub": "admin"})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		token, err := jwt.Parse(signed, signer.GetVerificationKey)
		require.NoError(t, err)
		require.True(t, token.Valid)
		require.Equal(t, jwt.SigningMethodHS256, signer.GetSigningMethod())
	})

	t.Run("same secret different info", func(t *testing.T) {
		other, err := keys.DeriveHMACSigner("top-secret", "other")
		require.NoError(t, err)
		_, err = jwt.Parse(signed, other.GetVerificationKey)
		require.ErrorIs(t, err, jwt.ErrSignatureInvalid)
	})

	t.Run("deterministic", func(t *testing.T) {
		again, err := keys.DeriveHMACSigner("top-secret", "access")
		require.NoError(t, err)
		_, err = jwt.Parse(signed, again.GetVerificationKey)
		require.NoError(t, err)
	})

	t.Run("rejects none algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "admin"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = jwt.Parse(unsigned, signer.GetVerificationKey)
		require.Error(t, err)
	})
}
