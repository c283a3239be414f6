package session

// Waiters returns how many requests are waiting on the in-flight renewal.
func Waiters(c *Client) int {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.inflight == nil {
		return 0
	}
	return c.inflight.waiters
}
