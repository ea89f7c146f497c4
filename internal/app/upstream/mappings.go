// internal/app/upstream/mappings.go
package upstream

import (
	"context"
	"net/http"
	"time"
)

// Mapping routes a public model alias to a concrete model on a provider.
// Lower Priority wins when several mappings share an alias.
type Mapping struct {
	ID          string    `json:"id"`
	Alias       string    `json:"alias"`
	ProviderID  string    `json:"provider_id"`
	TargetModel string    `json:"target_model"`
	Priority    int       `json:"priority"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MappingInput is the writable subset of Mapping.
type MappingInput struct {
	Alias       string `json:"alias"`
	ProviderID  string `json:"provider_id"`
	TargetModel string `json:"target_model"`
	Priority    int    `json:"priority"`
	Enabled     bool   `json:"enabled"`
}

type mappingList struct {
	Mappings []Mapping `json:"mappings"`
}

type mappingEnvelope struct {
	Mapping Mapping `json:"mapping"`
}

// ListMappings returns every model mapping.
func (c *Client) ListMappings(ctx context.Context) ([]Mapping, error) {
	var out mappingList
	if err := c.do(ctx, http.MethodGet, "/v0/management/model-mappings", "mappings", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Mappings, nil
}

// GetMapping returns one mapping by ID, or ErrNotFound.
func (c *Client) GetMapping(ctx context.Context, id string) (Mapping, error) {
	var out mappingEnvelope
	if err := c.do(ctx, http.MethodGet, "/v0/management/model-mappings/"+id, "mappings", nil, nil, &out); err != nil {
		return Mapping{}, err
	}
	return out.Mapping, nil
}

// CreateMapping adds a mapping. ErrConflict when alias+provider already exists.
func (c *Client) CreateMapping(ctx context.Context, in MappingInput) (Mapping, error) {
	var out mappingEnvelope
	if err := c.do(ctx, http.MethodPost, "/v0/management/model-mappings", "mappings", nil, in, &out); err != nil {
		return Mapping{}, err
	}
	return out.Mapping, nil
}

// UpdateMapping replaces a mapping's writable fields.
func (c *Client) UpdateMapping(ctx context.Context, id string, in MappingInput) (Mapping, error) {
	var out mappingEnvelope
	if err := c.do(ctx, http.MethodPut, "/v0/management/model-mappings/"+id, "mappings", nil, in, &out); err != nil {
		return Mapping{}, err
	}
	return out.Mapping, nil
}

// DeleteMapping removes a mapping.
func (c *Client) DeleteMapping(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v0/management/model-mappings/"+id, "mappings", nil, nil, nil)
}
