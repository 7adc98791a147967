package backend

import (
	"context"
	"fmt"
	"net/http"

	"lab-reception/internal/models"
)

const customersResource = "customers"

func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/customers", resource: customersResource, out: &out})
	return out, err
}

// ListCustomersByState lists customers with state A or I.
func (c *Client) ListCustomersByState(ctx context.Context, state string) ([]models.Customer, error) {
	var out []models.Customer
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/api/customers/estado/" + state,
		resource: customersResource,
		out:      &out,
	})
	return out, err
}

func (c *Client) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	var out models.Customer
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/customers/%d", id),
		resource: customersResource,
		out:      &out,
		messages: map[int]string{http.StatusNotFound: "Cliente no encontrado"},
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCustomer(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	var out models.Customer
	err := c.do(ctx, call{method: http.MethodPost, path: "/api/customers", resource: customersResource, body: in, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id int, in models.CustomerInput) error {
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/api/customers/%d", id),
		resource: customersResource,
		body:     in,
	})
}

// DeactivateCustomer flips the customer to state I.
func (c *Client) DeactivateCustomer(ctx context.Context, id int) error {
	return c.do(ctx, call{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/api/customers/eliminar/%d", id),
		resource: customersResource,
	})
}

// RestoreCustomer flips the customer back to state A.
func (c *Client) RestoreCustomer(ctx context.Context, id int) error {
	return c.do(ctx, call{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/api/customers/restaurar/%d", id),
		resource: customersResource,
	})
}
