package backend

import (
	"context"
	"fmt"
	"net/http"

	"lab-reception/internal/models"
)

const requestsResource = "requests"

func (c *Client) ListRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	var out []models.ServiceRequest
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/requests", resource: requestsResource, out: &out})
	return out, err
}

func (c *Client) ListRequestsByCustomer(ctx context.Context, customerID int) ([]models.ServiceRequest, error) {
	var out []models.ServiceRequest
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/requests/customer/%d", customerID),
		resource: requestsResource,
		out:      &out,
	})
	return out, err
}

func (c *Client) GetRequest(ctx context.Context, id int) (*models.ServiceRequest, error) {
	var out models.ServiceRequest
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/requests/%d", id),
		resource: requestsResource,
		out:      &out,
		messages: map[int]string{http.StatusNotFound: "Solicitud no encontrada"},
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRequest(ctx context.Context, in models.CreateRequestInput) (*models.ServiceRequest, error) {
	var out models.ServiceRequest
	err := c.do(ctx, call{method: http.MethodPost, path: "/api/requests", resource: requestsResource, body: in, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRequest(ctx context.Context, id int, in models.UpdateRequestInput) error {
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/api/requests/%d", id),
		resource: requestsResource,
		body:     in,
	})
}

// CancelRequest sets the request to CANCELADA; the backend appends reason to notes.
func (c *Client) CancelRequest(ctx context.Context, id int, reason string) error {
	return c.do(ctx, call{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/api/requests/%d", id),
		resource: requestsResource,
		body:     models.CancelRequestInput{Reason: reason},
	})
}
