package session

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/jrsteele09/go-portfolio-session/credentials"
	"github.com/jrsteele09/go-portfolio-session/oauth2"
	"github.com/tidwall/gjson"
)

// Paths of the auth service JSON API.
const (
	RefreshPath = "/api/v1/auth/refresh"
	LogoutPath  = "/api/v1/auth/logout"
)

var (
	_ Exchanger = (*HTTPExchanger)(nil)
	_ Revoker   = (*HTTPExchanger)(nil)
)

// HTTPExchanger calls the JSON refresh endpoint of the auth service.
type HTTPExchanger struct {
	client *resty.Client
}

// NewHTTPExchanger returns an exchanger for the auth service at authURL. A nil httpClient
// uses a default client. The client must not route through a session Client.
func NewHTTPExchanger(authURL string, httpClient *http.Client) *HTTPExchanger {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	client := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimRight(authURL, "/")).
		SetHeader("Accept", "application/json")
	return &HTTPExchanger{client: client}
}

func (e *HTTPExchanger) Exchange(ctx context.Context, refreshToken string) (*Renewal, error) {
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(oauth2.RefreshRequest{RefreshToken: refreshToken}).
		Post(RefreshPath)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, rejection(resp)
	}

	var token oauth2.TokenResponse
	if err := json.Unmarshal(resp.Body(), &token); err != nil || token.AccessToken == "" {
		return nil, &RejectedError{StatusCode: resp.StatusCode(), Message: "malformed exchange response"}
	}
	return &Renewal{AccessToken: token.AccessToken, RefreshToken: token.RefreshToken}, nil
}

// Revoke ends the session on the server: the refresh token is deleted and the access
// token is revoked.
func (e *HTTPExchanger) Revoke(ctx context.Context, pair credentials.Pair) error {
	req := e.client.R().
		SetContext(ctx).
		SetBody(oauth2.LogoutRequest{RefreshToken: pair.RefreshToken})
	if pair.AccessToken != "" {
		req.SetAuthToken(pair.AccessToken)
	}
	resp, err := req.Post(LogoutPath)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return rejection(resp)
	}
	return nil
}

func rejection(resp *resty.Response) *RejectedError {
	body := resp.Body()
	message := gjson.GetBytes(body, "error_description").String()
	if message == "" {
		message = gjson.GetBytes(body, "error").String()
	}
	if message == "" {
		message = gjson.GetBytes(body, "message").String()
	}
	return &RejectedError{StatusCode: resp.StatusCode(), Message: message}
}
