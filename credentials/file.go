package credentials

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFileName is the file used under the user config directory.
	DefaultFileName = "credentials.yaml"
	fileVersion     = "1"
)

var _ Store = (*FileStore)(nil)

// FileStore persists credentials to a YAML file, scoped by origin so one file
// can hold sessions for several API hosts. The in-memory copy stays authoritative
// when the file cannot be written.
type FileStore struct {
	path   string
	origin string
	pair   Pair
	lock   sync.RWMutex
}

type fileSnapshot struct {
	Version  string          `yaml:"version"`
	Sessions map[string]Pair `yaml:"sessions"`
}

// DefaultPath returns <user config dir>/portfolio/credentials.yaml.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "portfolio", DefaultFileName), nil
}

// Origin reduces a URL to scheme://host[:port]. Values that do not parse as an
// absolute URL are returned trimmed.
func Origin(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimRight(rawURL, "/")
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}

// NewFileStore loads the pair stored for origin at path. A missing or unreadable
// file yields an empty store.
func NewFileStore(path, origin string) *FileStore {
	fs := &FileStore{
		path:   path,
		origin: Origin(origin),
	}
	fs.Reload()
	return fs
}

// Path returns the backing file.
func (f *FileStore) Path() string {
	return f.path
}

// Reload re-reads the backing file, picking up changes made by other processes.
func (f *FileStore) Reload() {
	snap, err := f.load()
	if err != nil {
		log.Warn().Err(err).Str("path", f.path).Msg("credentials file unavailable, treating as logged out")
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	f.pair = snap.Sessions[f.origin]
}

func (f *FileStore) GetAccessToken() string {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.pair.AccessToken
}

func (f *FileStore) GetRefreshToken() string {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.pair.RefreshToken
}

func (f *FileStore) Pair() Pair {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.pair
}

func (f *FileStore) SetCredentials(access, refresh string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.pair = Pair{AccessToken: access, RefreshToken: refresh}
	f.persist()
}

func (f *FileStore) SetAccessToken(access string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.pair.AccessToken = access
	f.persist()
}

func (f *FileStore) Clear() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.pair = Pair{}
	f.persist()
}

// persist must be called with the write lock held.
func (f *FileStore) persist() {
	if err := f.save(); err != nil {
		log.Error().Err(err).Str("path", f.path).Msg("failed to persist credentials")
	}
}

func (f *FileStore) save() error {
	// Other origins in the file are kept, so start from what is on disk.
	snap, err := f.load()
	if err != nil {
		snap = newSnapshot()
	}
	if f.pair.IsZero() {
		delete(snap.Sessions, f.origin)
	} else {
		snap.Sessions[f.origin] = f.pair
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("unable to create credentials directory: %w", err)
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("unable to encode credentials: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("unable to write credentials: %w", err)
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) load() (*fileSnapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newSnapshot(), nil
		}
		return newSnapshot(), err
	}
	snap := newSnapshot()
	if err := yaml.Unmarshal(data, snap); err != nil {
		return newSnapshot(), fmt.Errorf("unable to parse credentials file: %w", err)
	}
	if snap.Sessions == nil {
		snap.Sessions = map[string]Pair{}
	}
	return snap, nil
}

func newSnapshot() *fileSnapshot {
	return &fileSnapshot{Version: fileVersion, Sessions: map[string]Pair{}}
}
