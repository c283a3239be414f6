package refresh

import (
	"time"
)

// StoredRefreshToken represents the server-side storage of refresh token metadata.
// The client only receives the Token field (a random string). All other fields are
// server-side metadata used when the token is exchanged.
type StoredRefreshToken struct {
	Token    string    // The actual random token string (sent to client)
	Subject  string    // Who the access tokens are issued for
	ClientID string    // Client the pair was issued to
	Role     string    // Copied into every access token minted from this refresh token
	Scope    string    // Original scope
	Iat      time.Time // Issued at, drives expiry
}

// Repo manages server-side storage of refresh token metadata, keyed by the token string.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	GetBySubject(subject string) (*StoredRefreshToken, error)
	List(offset, limit int) ([]*StoredRefreshToken, error)
}
