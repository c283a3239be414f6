// Package clients is the registry of OAuth2 clients allowed to use the token endpoint.
package clients

import (
	"errors"
	"slices"
	"strings"

	"github.com/jrsteele09/go-portfolio-session/oauth2"
)

var (
	ErrUnknownClient      = errors.New("unknown client")
	ErrInvalidScope       = errors.New("invalid scope")
	ErrUnauthorizedClient = errors.New("grant type not allowed for client")
)

type ClientType string

const (
	ClientTypeConfidential ClientType = "confidential" // Can keep secrets (server-side apps)
	ClientTypePublic       ClientType = "public"       // Cannot keep secrets (CLIs, SPAs)
)

type Client struct {
	ID          string             `json:"id"`
	Type        ClientType         `json:"type"` // public or confidential
	Description string             `json:"description"`
	GrantTypes  []oauth2.GrantType `json:"grantTypes"`
	Scopes      []string           `json:"scopes"` // Allowed scopes for this client
}

// IsPublic returns true if the client is a public client
func (c *Client) IsPublic() bool {
	return c.Type == ClientTypePublic
}

// AllowsGrant reports whether the client may use grantType at the token endpoint.
func (c *Client) AllowsGrant(grantType oauth2.GrantType) bool {
	return slices.Contains(c.GrantTypes, grantType)
}

// HasScope checks if the client has permission for a specific scope
func (c *Client) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// ValidateScopes checks if all requested scopes are allowed for this client
func (c *Client) ValidateScopes(requestedScopes string) error {
	for _, scope := range strings.Fields(requestedScopes) {
		if !c.HasScope(scope) {
			return ErrInvalidScope
		}
	}
	return nil
}

// Authorize checks that the client may run grantType with the requested scopes.
func (c *Client) Authorize(grantType oauth2.GrantType, requestedScopes string) error {
	if !c.AllowsGrant(grantType) {
		return ErrUnauthorizedClient
	}
	return c.ValidateScopes(requestedScopes)
}
