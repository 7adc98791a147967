package backend

import (
	"context"
	"fmt"
	"net/http"

	"lab-reception/internal/models"
)

const addressesResource = "addresses"

func (c *Client) GetAddress(ctx context.Context, id int) (*models.Address, error) {
	var out models.Address
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/addresses/%d", id),
		resource: addressesResource,
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAddress returns the created address; its id may come back as "id" or "address_id".
func (c *Client) CreateAddress(ctx context.Context, in models.AddressInput) (*models.Address, error) {
	var out models.Address
	err := c.do(ctx, call{method: http.MethodPost, path: "/api/addresses", resource: addressesResource, body: in, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAddress(ctx context.Context, id int, in models.AddressInput) error {
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/api/addresses/%d", id),
		resource: addressesResource,
		body:     in,
	})
}
