// Package credentials holds the access/refresh token pair used by the session client.
// A Store is the only component allowed to mutate persisted credentials.
package credentials

import "sync"

// Pair is an access token and the refresh token that renews it.
// An empty string means the token is absent.
type Pair struct {
	AccessToken  string `yaml:"access_token"`
	RefreshToken string `yaml:"refresh_token"`
}

// IsZero reports whether neither token is present.
func (p Pair) IsZero() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// Store is the single source of truth for the current credential pair.
// Implementations never fail the caller: storage problems read as "no credentials".
type Store interface {
	GetAccessToken() string
	GetRefreshToken() string
	// Pair returns both tokens from one consistent read.
	Pair() Pair
	// SetCredentials replaces both tokens as a unit.
	SetCredentials(access, refresh string)
	// SetAccessToken replaces the access token after a renewal without rotation.
	SetAccessToken(access string)
	Clear()
}

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps credentials for the lifetime of the process.
type MemoryStore struct {
	pair Pair
	lock sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) GetAccessToken() string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.pair.AccessToken
}

func (m *MemoryStore) GetRefreshToken() string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.pair.RefreshToken
}

func (m *MemoryStore) Pair() Pair {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.pair
}

func (m *MemoryStore) SetCredentials(access, refresh string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.pair = Pair{AccessToken: access, RefreshToken: refresh}
}

func (m *MemoryStore) SetAccessToken(access string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.pair.AccessToken = access
}

func (m *MemoryStore) Clear() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.pair = Pair{}
}
