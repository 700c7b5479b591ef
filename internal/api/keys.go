package api

import (
	"context"
	"fmt"
	"net/http"
)

// Key records are user-scoped model/platform credentials consumed by the
// backend's generation step. They sit at the boundary of this client:
// plain CRUD, no local state.

// ListKeys returns the user's key records. The server masks stored keys.
func (c *Client) ListKeys(ctx context.Context) ([]*KeyRecord, error) {
	var keys []*KeyRecord
	if err := c.do(ctx, http.MethodGet, "/api/keys", nil, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// CreateKey registers a new key record.
func (c *Client) CreateKey(ctx context.Context, record *KeyRecord) (*KeyRecord, error) {
	created := &KeyRecord{}
	if err := c.do(ctx, http.MethodPost, "/api/keys", record, created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateKey replaces an existing key record.
func (c *Client) UpdateKey(ctx context.Context, id int64, record *KeyRecord) (*KeyRecord, error) {
	updated := &KeyRecord{}
	path := fmt.Sprintf("/api/keys/%d", id)
	if err := c.do(ctx, http.MethodPut, path, record, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteKey removes a key record.
func (c *Client) DeleteKey(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/keys/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
