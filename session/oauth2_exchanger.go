package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

var _ Exchanger = (*OAuth2Exchanger)(nil)

// OAuth2Exchanger renews tokens with the standard refresh_token grant.
type OAuth2Exchanger struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewOAuth2Exchanger returns an exchanger posting to tokenURL. The client ID is sent in the
// form body, so public clients without a secret are supported.
func NewOAuth2Exchanger(tokenURL, clientID string, httpClient *http.Client) *OAuth2Exchanger {
	return &OAuth2Exchanger{
		config: &oauth2.Config{
			ClientID: clientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
	}
}

// DiscoverOAuth2Exchanger reads the issuer's OpenID configuration and builds an exchanger
// for its token endpoint.
func DiscoverOAuth2Exchanger(ctx context.Context, issuer, clientID string, httpClient *http.Client) (*OAuth2Exchanger, error) {
	if httpClient != nil {
		ctx = oidc.ClientContext(ctx, httpClient)
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover token endpoint for %s: %w", issuer, err)
	}
	endpoint := provider.Endpoint()
	if endpoint.TokenURL == "" {
		return nil, fmt.Errorf("issuer %s does not advertise a token endpoint", issuer)
	}
	return NewOAuth2Exchanger(endpoint.TokenURL, clientID, httpClient), nil
}

// TokenURL returns the endpoint the exchanger posts to.
func (e *OAuth2Exchanger) TokenURL() string {
	return e.config.Endpoint.TokenURL
}

func (e *OAuth2Exchanger) Exchange(ctx context.Context, refreshToken string) (*Renewal, error) {
	if e.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)
	}
	token, err := e.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, retrieveRejection(retrieveErr)
		}
		return nil, err
	}

	renewed := &Renewal{AccessToken: token.AccessToken}
	// x/oauth2 carries the old refresh token forward when the response has none.
	if token.RefreshToken != refreshToken {
		renewed.RefreshToken = token.RefreshToken
	}
	return renewed, nil
}

func retrieveRejection(err *oauth2.RetrieveError) *RejectedError {
	rejected := &RejectedError{Message: err.ErrorDescription}
	if rejected.Message == "" {
		rejected.Message = err.ErrorCode
	}
	if err.Response != nil {
		rejected.StatusCode = err.Response.StatusCode
	}
	return rejected
}
