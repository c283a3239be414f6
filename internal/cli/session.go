package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/go-portfolio-session/credentials"
	"github.com/jrsteele09/go-portfolio-session/internal/config"
	"github.com/jrsteele09/go-portfolio-session/portfolio"
	"github.com/jrsteele09/go-portfolio-session/session"
	"github.com/spf13/cobra"
)

// store opens the credentials saved for the API origin.
func (o *options) store() (*credentials.FileStore, error) {
	path := o.credentialsFile
	if path == "" {
		var err error
		if path, err = credentials.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return credentials.NewFileStore(path, o.apiURL), nil
}

func (o *options) exchanger() (session.Exchanger, error) {
	switch o.exchangeMode {
	case config.ExchangeModeJSON:
		return session.NewHTTPExchanger(o.authURL, nil), nil
	case config.ExchangeModeOAuth2:
		return o.discoveringExchanger(), nil
	default:
		return nil, fmt.Errorf("unknown exchange mode %q (want %s or %s)", o.exchangeMode, config.ExchangeModeJSON, config.ExchangeModeOAuth2)
	}
}

// discoveringExchanger looks up the token endpoint on the first renewal, so commands that
// never need one do not depend on the issuer being reachable.
func (o *options) discoveringExchanger() session.Exchanger {
	var (
		lock      sync.Mutex
		exchanger *session.OAuth2Exchanger
	)
	return session.ExchangerFunc(func(ctx context.Context, refreshToken string) (*session.Renewal, error) {
		lock.Lock()
		if exchanger == nil {
			discovered, err := session.DiscoverOAuth2Exchanger(ctx, o.authURL, o.clientID, nil)
			if err != nil {
				lock.Unlock()
				return nil, err
			}
			exchanger = discovered
		}
		lock.Unlock()
		return exchanger.Exchange(ctx, refreshToken)
	})
}

// sessionClient wires the credentials file and exchanger into a session client.
func (o *options) sessionClient(cmd *cobra.Command) (*session.Client, *credentials.FileStore, error) {
	store, err := o.store()
	if err != nil {
		return nil, nil, err
	}
	exchanger, err := o.exchanger()
	if err != nil {
		return nil, nil, err
	}

	errOut := cmd.ErrOrStderr()
	client := session.New(store, exchanger,
		session.WithBaseURL(o.apiURL),
		session.WithRenewalTimeout(o.renewalTimeout),
		session.WithSessionEnded(func(err error) {
			warnLabel.Fprintf(errOut, "Session ended: %v\nRun \"portfolioctl login\" to sign in again.\n", err)
		}),
	)
	return client, store, nil
}

func (o *options) portfolioClient(cmd *cobra.Command) (*portfolio.Client, error) {
	client, _, err := o.sessionClient(cmd)
	if err != nil {
		return nil, err
	}
	return portfolio.New(o.apiURL, client), nil
}
