package session

import (
	"context"
	"errors"
	"fmt"
)

// State of the renewal state machine.
type State int

const (
	// StateIdle means no exchange is in flight.
	StateIdle State = iota
	// StateRenewing means one exchange is in flight and 401s attach to it.
	StateRenewing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRenewing:
		return "RENEWING"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// renewal is the shared outcome of one exchange. accessToken and err are written
// before done is closed and only read after.
type renewal struct {
	done        chan struct{}
	waiters     int
	accessToken string
	err         error
}

// renew returns the access token to retry with after a 401 on a request that carried sent.
func (c *Client) renew(ctx context.Context, sent string) (string, error) {
	c.lock.Lock()
	r := c.inflight
	if r == nil {
		pair := c.store.Pair()
		if pair.RefreshToken == "" {
			ended := !pair.IsZero()
			c.store.Clear()
			c.lock.Unlock()
			// Only the caller that actually ended the session signals it.
			if ended {
				c.endSession(ErrUnauthenticated)
			}
			return "", ErrUnauthenticated
		}
		if pair.AccessToken != "" && pair.AccessToken != sent {
			// A renewal finished while this request was in flight.
			c.lock.Unlock()
			return pair.AccessToken, nil
		}
		r = &renewal{done: make(chan struct{})}
		c.inflight = r
		go c.exchange(context.WithoutCancel(ctx), r, pair.RefreshToken)
	}
	r.waiters++
	c.lock.Unlock()

	select {
	case <-r.done:
		return r.accessToken, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Client) exchange(ctx context.Context, r *renewal, refreshToken string) {
	ctx, cancel := context.WithTimeout(ctx, c.renewalTimeout)
	defer cancel()

	c.logger.Debug().Msg("renewing access token")
	renewed, err := c.exchanger.Exchange(ctx, refreshToken)
	if err == nil && (renewed == nil || renewed.AccessToken == "") {
		err = &RejectedError{Message: "exchange returned no access token"}
	}

	var ended bool
	c.lock.Lock()
	current := c.store.Pair()
	switch {
	case current.RefreshToken != refreshToken:
		// Login or Logout replaced the credentials while the exchange was running.
		c.logger.Debug().Msg("credentials changed during renewal, discarding result")
		if current.AccessToken != "" {
			r.accessToken = current.AccessToken
		} else {
			r.err = ErrUnauthenticated
		}
	case err == nil:
		if renewed.RefreshToken != "" {
			c.store.SetCredentials(renewed.AccessToken, renewed.RefreshToken)
		} else {
			c.store.SetAccessToken(renewed.AccessToken)
		}
		r.accessToken = renewed.AccessToken
		c.logger.Info().Bool("rotated", renewed.RefreshToken != "").Int("waiters", r.waiters).Msg("access token renewed")
	case errors.Is(err, ErrExchangeRejected):
		c.store.Clear()
		r.err = fmt.Errorf("%w: %w", ErrRenewalFailed, err)
		ended = true
		c.logger.Warn().Err(err).Int("waiters", r.waiters).Msg("refresh token rejected")
	default:
		r.err = &TransportError{Op: OpExchange, Err: err}
		c.logger.Warn().Err(err).Msg("renewal exchange failed")
	}
	c.inflight = nil
	c.lock.Unlock()

	// Waiters are released only after the host has been told the session ended.
	if ended {
		c.endSession(r.err)
	}
	close(r.done)
}
