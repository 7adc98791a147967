package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"lab-reception/internal/lifecycle"
	"lab-reception/internal/models"
)

const samplesResource = "samples"

func (c *Client) ListSamples(ctx context.Context) ([]models.Sample, error) {
	var out []models.Sample
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/samples", resource: samplesResource, out: &out})
	return out, err
}

func (c *Client) ListSamplesByRequest(ctx context.Context, requestID int) ([]models.Sample, error) {
	var out []models.Sample
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/samples/request/%d", requestID),
		resource: samplesResource,
		out:      &out,
	})
	return out, err
}

func (c *Client) GetSample(ctx context.Context, id int) (*models.Sample, error) {
	return c.getSample(ctx, fmt.Sprintf("/api/samples/%d", id))
}

func (c *Client) GetSampleByCode(ctx context.Context, code string) (*models.Sample, error) {
	return c.getSample(ctx, "/api/samples/code/"+url.PathEscape(code))
}

func (c *Client) getSample(ctx context.Context, path string) (*models.Sample, error) {
	var out models.Sample
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     path,
		resource: samplesResource,
		out:      &out,
		messages: map[int]string{http.StatusNotFound: "Muestra no encontrada"},
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSample(ctx context.Context, in models.SampleInput) (*models.Sample, error) {
	var out models.Sample
	err := c.do(ctx, call{method: http.MethodPost, path: "/api/samples", resource: samplesResource, body: in, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSample(ctx context.Context, id int, in models.SampleInput) error {
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/api/samples/%d", id),
		resource: samplesResource,
		body:     in,
	})
}

type statusUpdate struct {
	CurrentStatusID lifecycle.StatusID `json:"current_status_id"`
	Comments        string             `json:"comments,omitempty"`
}

// MarkSampleAnalyzed moves the sample to ANALIZADA.
func (c *Client) MarkSampleAnalyzed(ctx context.Context, id int, comments string) error {
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/api/samples/%d", id),
		resource: samplesResource,
		body:     statusUpdate{CurrentStatusID: lifecycle.StatusAnalyzed, Comments: comments},
	})
}

type commentBody struct {
	Comments string `json:"comments,omitempty"`
}

// ArchiveSample is the soft delete of a sample; the backend sets status 12.
func (c *Client) ArchiveSample(ctx context.Context, id int, comments string) error {
	return c.do(ctx, call{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/api/samples/%d", id),
		resource: samplesResource,
		body:     commentBody{Comments: comments},
	})
}

// RestoreSample returns an archived sample to REGISTRADA.
func (c *Client) RestoreSample(ctx context.Context, id int) error {
	return c.do(ctx, call{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/api/samples/restaurar/%d", id),
		resource: samplesResource,
		messages: map[int]string{http.StatusNotFound: "Muestra no encontrada"},
		fallbacks: map[int]string{
			http.StatusBadRequest:          "La muestra no está archivada. Solo se pueden restaurar muestras archivadas.",
			http.StatusInternalServerError: "Error interno del servidor",
		},
	})
}
