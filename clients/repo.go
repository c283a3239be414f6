package clients

type Repo interface {
	Upsert(client *Client) error
	Delete(clientID string) error
	// Get returns ErrUnknownClient when clientID is not registered.
	Get(clientID string) (*Client, error)
	List(offset, limit int) ([]*Client, error)
}
