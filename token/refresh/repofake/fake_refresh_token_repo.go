package refreshrepofake

import (
	"sort"
	"sync"

	"github.com/jrsteele09/go-portfolio-session/internal/errors"
	"github.com/jrsteele09/go-portfolio-session/token/refresh"
)

var _ refresh.Repo = (*FakeRefreshTokenRepo)(nil)

// FakeRefreshTokenRepo keeps refresh tokens in memory. It backs the reference auth
// service, which has no durable storage.
type FakeRefreshTokenRepo struct {
	tokens   map[string]*refresh.StoredRefreshToken
	subjects map[string]string // subject to token
	lock     sync.RWMutex
}

func NewFakeRefreshTokenRepo() refresh.Repo {
	return &FakeRefreshTokenRepo{
		tokens:   make(map[string]*refresh.StoredRefreshToken),
		subjects: make(map[string]string),
	}
}

func (tr *FakeRefreshTokenRepo) Upsert(refreshToken *refresh.StoredRefreshToken) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	stored := *refreshToken
	tr.tokens[refreshToken.Token] = &stored
	tr.subjects[refreshToken.Subject] = refreshToken.Token
	return nil
}

func (tr *FakeRefreshTokenRepo) Delete(token string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	rt, ok := tr.tokens[token]
	if !ok {
		return errors.ErrNotFound
	}
	if tr.subjects[rt.Subject] == token {
		delete(tr.subjects, rt.Subject)
	}
	delete(tr.tokens, token)
	return nil
}

func (tr *FakeRefreshTokenRepo) Get(token string) (*refresh.StoredRefreshToken, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	rt, ok := tr.tokens[token]
	if !ok {
		return nil, errors.ErrNotFound
	}
	stored := *rt
	return &stored, nil
}

func (tr *FakeRefreshTokenRepo) GetBySubject(subject string) (*refresh.StoredRefreshToken, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	token, ok := tr.subjects[subject]
	if !ok {
		return nil, errors.ErrNotFound
	}
	stored := *tr.tokens[token]
	return &stored, nil
}

// List returns tokens oldest first.
func (tr *FakeRefreshTokenRepo) List(offset, limit int) ([]*refresh.StoredRefreshToken, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	tokens := make([]*refresh.StoredRefreshToken, 0, len(tr.tokens))
	for _, v := range tr.tokens {
		stored := *v
		tokens = append(tokens, &stored)
	}

	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Iat.Before(tokens[j].Iat)
	})

	if offset < 0 || offset >= len(tokens) {
		return nil, nil
	}
	end := len(tokens)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return tokens[offset:end], nil
}
