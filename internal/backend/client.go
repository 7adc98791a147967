// Package backend is the REST client of the laboratory backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lab-reception/internal/logging"
	"lab-reception/internal/metrics"

	"go.uber.org/zap"
)

const maxErrorBody = 1 << 20

// Client talks to the lab backend. Calls are never retried.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a client for baseURL. A nil httpClient gets one with timeout.
func New(baseURL string, timeout time.Duration, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger.Named("backend"),
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// call describes one backend round trip.
type call struct {
	method   string
	path     string
	resource string
	body     any
	out      any
	// messages replace the backend message for the given status
	messages map[int]string
	// fallbacks are used when the backend sends no message for the status
	fallbacks map[int]string
}

// envelope is the {success, data} wrapper some endpoints use.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (c *Client) do(ctx context.Context, req call) error {
	raw, _, err := c.roundTrip(ctx, req, "application/json")
	if err != nil {
		return err
	}
	if req.out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return c.decode(req, raw)
}

// decode unwraps {success, data} bodies and decodes raw arrays/objects as is.
func (c *Client) decode(req call, raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil && env.Success != nil {
			if !*env.Success {
				return &APIError{
					Status:  http.StatusBadGateway,
					Message: firstNonEmpty(env.Error, env.Message, "Error desconocido"),
					Method:  req.method,
					Path:    req.path,
				}
			}
			if len(env.Data) == 0 || string(env.Data) == "null" {
				return nil
			}
			trimmed = env.Data
		}
	}
	if err := json.Unmarshal(trimmed, req.out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, req call, accept string) ([]byte, string, error) {
	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return nil, "", fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return nil, "", fmt.Errorf("build %s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", accept)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if id := logging.RequestID(ctx); id != "" {
		httpReq.Header.Set(logging.RequestIDHeader, id)
	}

	log := logging.For(ctx, c.logger).With(
		zap.String("method", req.method),
		zap.String("path", req.path),
	)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	metrics.BackendRequestDuration.WithLabelValues(req.method, req.resource).Observe(time.Since(start).Seconds())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
			log.Debug("backend call abandoned", zap.Error(err))
			return nil, "", ctxErr
		}
		metrics.BackendRequestsTotal.WithLabelValues(req.method, req.resource, metrics.OutcomeUnreachable).Inc()
		log.Warn("backend unreachable", zap.Error(err))
		return nil, "", &UnreachableError{BaseURL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.BackendRequestsTotal.WithLabelValues(req.method, req.resource, metrics.OutcomeError).Inc()
		apiErr := c.apiError(req, resp)
		log.Info("backend rejected call", zap.Int("status", apiErr.Status), zap.String("message", apiErr.Message))
		return nil, "", apiErr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(req.method, req.resource, metrics.OutcomeError).Inc()
		return nil, "", fmt.Errorf("read %s %s: %w", req.method, req.path, err)
	}
	metrics.BackendRequestsTotal.WithLabelValues(req.method, req.resource, metrics.OutcomeOK).Inc()
	log.Debug("backend call", zap.Int("status", resp.StatusCode), zap.Duration("took", time.Since(start)))
	return raw, resp.Header.Get("Content-Type"), nil
}

// apiError extracts {error|message} from the body, falling back to "HTTP {status}".
func (c *Client) apiError(req call, resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode, Method: req.method, Path: req.path}
	if msg, ok := req.messages[resp.StatusCode]; ok {
		apiErr.Message = msg
		return apiErr
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		apiErr.Message = firstNonEmpty(env.Error, env.Message)
	}
	if apiErr.Message == "" {
		apiErr.Message = firstNonEmpty(req.fallbacks[resp.StatusCode], fmt.Sprintf("HTTP %d", resp.StatusCode))
	}
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
