package errors_test

import (
	"testing"

	"github.com/jrsteele09/go-portfolio-session/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	require.NoError(t, errors.Wrapf(nil, "refresh %s", "abc"))

	err := errors.Wrapf(errors.ErrRefreshTokenExpired, "refresh %s", "abc")
	require.EqualError(t, err, "refresh abc: refresh token expired")
	require.True(t, errors.Is(err, errors.ErrRefreshTokenExpired))
	require.False(t, errors.Is(err, errors.ErrInvalidRefreshToken))
}
