package session

import (
	"context"

	"github.com/jrsteele09/go-portfolio-session/credentials"
)

// Renewal is the outcome of a successful exchange. An empty RefreshToken means the
// refresh token was not rotated.
type Renewal struct {
	AccessToken  string
	RefreshToken string
}

// Exchanger trades a refresh token for a new access token.
// A refused refresh token must be reported with an error matching ErrExchangeRejected.
type Exchanger interface {
	Exchange(ctx context.Context, refreshToken string) (*Renewal, error)
}

// Revoker is implemented by exchangers that can end a session on the server.
type Revoker interface {
	Revoke(ctx context.Context, pair credentials.Pair) error
}

// ExchangerFunc adapts a function to the Exchanger interface.
type ExchangerFunc func(ctx context.Context, refreshToken string) (*Renewal, error)

func (f ExchangerFunc) Exchange(ctx context.Context, refreshToken string) (*Renewal, error) {
	return f(ctx, refreshToken)
}
