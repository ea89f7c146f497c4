// internal/app/upstream/providers.go
package upstream

import (
	"context"
	"net/http"
	"time"
)

// Provider is one configured model backend in the proxy.
type Provider struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	BaseURL   string    `json:"base_url"`
	Enabled   bool      `json:"enabled"`
	Models    []string  `json:"models,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProviderInput is the writable subset of Provider.
type ProviderInput struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key,omitempty"`
	Enabled bool   `json:"enabled"`
}

type providerList struct {
	Providers []Provider `json:"providers"`
}

type providerEnvelope struct {
	Provider Provider `json:"provider"`
}

// ListProviders returns every provider the proxy knows about.
func (c *Client) ListProviders(ctx context.Context) ([]Provider, error) {
	var out providerList
	if err := c.do(ctx, http.MethodGet, "/v0/management/providers", "providers", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Providers, nil
}

// GetProvider returns one provider by ID, or ErrNotFound.
func (c *Client) GetProvider(ctx context.Context, id string) (Provider, error) {
	var out providerEnvelope
	if err := c.do(ctx, http.MethodGet, "/v0/management/providers/"+id, "providers", nil, nil, &out); err != nil {
		return Provider{}, err
	}
	return out.Provider, nil
}

// CreateProvider registers a new provider. ErrConflict when the name is taken.
func (c *Client) CreateProvider(ctx context.Context, in ProviderInput) (Provider, error) {
	var out providerEnvelope
	if err := c.do(ctx, http.MethodPost, "/v0/management/providers", "providers", nil, in, &out); err != nil {
		return Provider{}, err
	}
	return out.Provider, nil
}

// UpdateProvider replaces a provider's writable fields.
func (c *Client) UpdateProvider(ctx context.Context, id string, in ProviderInput) (Provider, error) {
	var out providerEnvelope
	if err := c.do(ctx, http.MethodPut, "/v0/management/providers/"+id, "providers", nil, in, &out); err != nil {
		return Provider{}, err
	}
	return out.Provider, nil
}

// SetProviderEnabled flips a provider in or out of the routing pool.
func (c *Client) SetProviderEnabled(ctx context.Context, id string, enabled bool) error {
	in := struct {
		Enabled bool `json:"enabled"`
	}{Enabled: enabled}
	return c.do(ctx, http.MethodPatch, "/v0/management/providers/"+id, "providers", nil, in, nil)
}

// DeleteProvider removes a provider.
func (c *Client) DeleteProvider(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v0/management/providers/"+id, "providers", nil, nil, nil)
}
