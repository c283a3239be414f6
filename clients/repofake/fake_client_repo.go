package repofake

import (
	"errors"
	"sort"
	"sync"

	"github.com/jrsteele09/go-portfolio-session/clients"
)

var _ clients.Repo = (*FakeClientRepo)(nil)

// FakeClientRepo keeps clients in memory. Values are copied in and out.
type FakeClientRepo struct {
	clients map[string]clients.Client
	lock    sync.RWMutex
}

func NewFakeClientRepo() *FakeClientRepo {
	return &FakeClientRepo{
		clients: make(map[string]clients.Client),
	}
}

func (r *FakeClientRepo) Upsert(client *clients.Client) error {
	if client == nil || client.ID == "" {
		return errors.New("client id is required")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.clients[client.ID] = *client
	return nil
}

func (r *FakeClientRepo) Delete(clientID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.clients, clientID)
	return nil
}

func (r *FakeClientRepo) Get(clientID string) (*clients.Client, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	client, ok := r.clients[clientID]
	if !ok {
		return nil, clients.ErrUnknownClient
	}
	return &client, nil
}

func (r *FakeClientRepo) List(offset, limit int) ([]*clients.Client, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	result := make([]*clients.Client, 0, len(r.clients))
	for _, v := range r.clients {
		client := v
		result = append(result, &client)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	if offset >= len(result) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}
