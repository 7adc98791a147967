package backend

import (
	"context"
	"fmt"
	"net/http"

	"lab-reception/internal/models"
)

const resultsResource = "analysis-results"

func (c *Client) ListResults(ctx context.Context, includeDeleted bool) ([]models.AnalysisResult, error) {
	path := "/api/analysis-results"
	if includeDeleted {
		path += "?include_deleted=true"
	}
	var out []models.AnalysisResult
	err := c.do(ctx, call{method: http.MethodGet, path: path, resource: resultsResource, out: &out})
	return out, err
}

func (c *Client) ListResultsBySample(ctx context.Context, sampleID int, includeDeleted bool) ([]models.AnalysisResult, error) {
	path := fmt.Sprintf("/api/analysis-results/sample/%d", sampleID)
	if includeDeleted {
		path += "?include_deleted=true"
	}
	var out []models.AnalysisResult
	err := c.do(ctx, call{method: http.MethodGet, path: path, resource: resultsResource, out: &out})
	return out, err
}

func (c *Client) CreateResult(ctx context.Context, in models.AnalysisResultInput) (*models.AnalysisResult, error) {
	var out models.AnalysisResult
	err := c.do(ctx, call{method: http.MethodPost, path: "/api/analysis-results", resource: resultsResource, body: in, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateResult(ctx context.Context, id int, in models.AnalysisResultInput) error {
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/api/analysis-results/%d", id),
		resource: resultsResource,
		body:     in,
	})
}

// DeleteResult marks the result is_deleted with an optional comment.
func (c *Client) DeleteResult(ctx context.Context, id int, comments string) error {
	return c.do(ctx, call{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/api/analysis-results/%d", id),
		resource: resultsResource,
		body:     commentBody{Comments: comments},
	})
}

func (c *Client) RestoreResult(ctx context.Context, id int) error {
	return c.do(ctx, call{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/api/analysis-results/restaurar/%d", id),
		resource: resultsResource,
	})
}
