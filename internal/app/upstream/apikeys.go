// internal/app/upstream/apikeys.go
package upstream

import (
	"context"
	"net/http"
	"time"
)

// Key statuses the proxy reports.
const (
	KeyStatusActive  = "active"
	KeyStatusRevoked = "revoked"
)

// APIKey is a client credential for the proxy's serving endpoints. The
// secret itself is only returned once, at creation, as CreatedKey.Secret.
type APIKey struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Prefix       string     `json:"prefix"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	RequestCount int64      `json:"request_count"`
	LastUsedAt   *time.Time `json:"last_used_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
}

// APIKeyInput is the writable subset of APIKey.
type APIKeyInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreatedKey pairs a freshly minted key with its one-time secret.
type CreatedKey struct {
	Key    APIKey `json:"key"`
	Secret string `json:"secret"`
}

type keyList struct {
	Keys []APIKey `json:"keys"`
}

type keyEnvelope struct {
	Key APIKey `json:"key"`
}

// ListAPIKeys returns every key, active and revoked.
func (c *Client) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	var out keyList
	if err := c.do(ctx, http.MethodGet, "/v0/management/api-keys", "apikeys", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Keys, nil
}

// GetAPIKey returns one key by ID, or ErrNotFound.
func (c *Client) GetAPIKey(ctx context.Context, id string) (APIKey, error) {
	var out keyEnvelope
	if err := c.do(ctx, http.MethodGet, "/v0/management/api-keys/"+id, "apikeys", nil, nil, &out); err != nil {
		return APIKey{}, err
	}
	return out.Key, nil
}

// CreateAPIKey mints a key. The secret in the result is shown once and
// never retrievable again. ErrConflict when the name is taken.
func (c *Client) CreateAPIKey(ctx context.Context, in APIKeyInput) (CreatedKey, error) {
	var out CreatedKey
	if err := c.do(ctx, http.MethodPost, "/v0/management/api-keys", "apikeys", nil, in, &out); err != nil {
		return CreatedKey{}, err
	}
	return out, nil
}

// UpdateAPIKey renames or redescribes a key.
func (c *Client) UpdateAPIKey(ctx context.Context, id string, in APIKeyInput) (APIKey, error) {
	var out keyEnvelope
	if err := c.do(ctx, http.MethodPut, "/v0/management/api-keys/"+id, "apikeys", nil, in, &out); err != nil {
		return APIKey{}, err
	}
	return out.Key, nil
}

// RevokeAPIKey permanently disables a key. Revocation is not reversible.
func (c *Client) RevokeAPIKey(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/v0/management/api-keys/"+id+"/revoke", "apikeys", nil, nil, nil)
}

// DeleteAPIKey removes a key record entirely.
func (c *Client) DeleteAPIKey(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v0/management/api-keys/"+id, "apikeys", nil, nil, nil)
}
