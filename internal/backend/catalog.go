package backend

import (
	"context"
	"fmt"
	"net/http"

	"lab-reception/internal/models"
)

func (c *Client) ListSampleTypes(ctx context.Context) ([]models.SampleType, error) {
	var out []models.SampleType
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/sample-types", resource: "sample-types", out: &out})
	return out, err
}

func (c *Client) CreateSampleType(ctx context.Context, in models.SampleType) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/api/sample-types", resource: "sample-types", body: in})
}

func (c *Client) UpdateSampleType(ctx context.Context, id int, in models.SampleType) error {
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/api/sample-types/%d", id),
		resource: "sample-types",
		body:     in,
	})
}

func (c *Client) DeleteSampleType(ctx context.Context, id int) error {
	return c.do(ctx, call{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/api/sample-types/%d", id),
		resource: "sample-types",
	})
}

func (c *Client) ListServiceTypes(ctx context.Context) ([]models.ServiceType, error) {
	var out []models.ServiceType
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/service-types", resource: "service-types", out: &out})
	return out, err
}

func (c *Client) CreateServiceType(ctx context.Context, in models.ServiceType) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/api/service-types", resource: "service-types", body: in})
}

func (c *Client) UpdateServiceType(ctx context.Context, id int, in models.ServiceType) error {
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/api/service-types/%d", id),
		resource: "service-types",
		body:     in,
	})
}

// SetServiceTypeActive calls the activate or deactivate endpoint.
func (c *Client) SetServiceTypeActive(ctx context.Context, id int, active bool) error {
	op := "deactivate"
	if active {
		op = "activate"
	}
	return c.do(ctx, call{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/api/service-types/%d/%s", id, op),
		resource: "service-types",
	})
}

func (c *Client) ListSampleStatuses(ctx context.Context) ([]models.SampleStatus, error) {
	var out []models.SampleStatus
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/sample-status", resource: "sample-status", out: &out})
	return out, err
}

func (c *Client) ListAnalysisParameters(ctx context.Context) ([]models.AnalysisParameter, error) {
	var out []models.AnalysisParameter
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/analysis-parameters", resource: "analysis-parameters", out: &out})
	return out, err
}

func (c *Client) CreateAnalysisParameter(ctx context.Context, in models.AnalysisParameter) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/api/analysis-parameters", resource: "analysis-parameters", body: in})
}

func (c *Client) UpdateAnalysisParameter(ctx context.Context, id int, in models.AnalysisParameter) error {
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/api/analysis-parameters/%d", id),
		resource: "analysis-parameters",
		body:     in,
	})
}

func (c *Client) DeleteAnalysisParameter(ctx context.Context, id int) error {
	return c.do(ctx, call{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/api/analysis-parameters/%d", id),
		resource: "analysis-parameters",
	})
}
