// Package portfolio is a typed client for the portfolio REST API. Requests go through the
// transport given to New, normally a session client that attaches and renews bearer tokens.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/jrsteele09/go-portfolio-session/session"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// APIError is a non-2xx response from the portfolio API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("portfolio api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("portfolio api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	client   *resty.Client
	validate *validator.Validate

	Articles *ArticleService
	Projects *ProjectService
	Profile  *ProfileService
}

// New returns a client for the API at baseURL. A nil transport uses http.DefaultTransport,
// which sends requests without credentials.
func New(baseURL string, transport http.RoundTripper) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	if transport != nil {
		client.SetTransport(transport)
	}

	c := &Client{client: client, validate: newValidator()}
	c.Articles = &ArticleService{client: c}
	c.Projects = &ProjectService{client: c}
	c.Profile = &ProfileService{client: c}
	return c
}

// Raw sends a request to path and returns the response body of a 2xx response.
func (c *Client) Raw(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req := c.client.R().SetContext(ctx)
	if len(body) > 0 {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := c.execute(req, method, path)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// do sends body as JSON and decodes a 2xx response into result. Either may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	_, err := c.execute(req, method, path)
	return err
}

func (c *Client) execute(req *resty.Request, method, path string) (*resty.Response, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, transportError(method, path, err)
	}
	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("duration", resp.Time()).
		Msg("portfolio api call")
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return resp, nil
}

// transportError strips the url.Error added by net/http so session errors reach the caller
// as the session client returned them.
func transportError(method, path string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var sessionTransport *session.TransportError
		if errors.Is(urlErr.Err, session.ErrAuthentication) || errors.As(urlErr.Err, &sessionTransport) {
			return urlErr.Err
		}
	}
	return fmt.Errorf("%s %s: %w", method, path, err)
}

func apiError(resp *resty.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	for _, field := range []string{"error", "message"} {
		if msg := gjson.GetBytes(resp.Body(), field); msg.Type == gjson.String && msg.Str != "" {
			apiErr.Message = msg.Str
			break
		}
	}
	return apiErr
}

func pageQuery(page, limit int) map[string]string {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	return map[string]string{
		"page":  fmt.Sprint(page),
		"limit": fmt.Sprint(limit),
	}
}
