package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"lab-reception/internal/backend"
	"lab-reception/internal/handlers"
	"lab-reception/internal/health"
	"lab-reception/internal/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend answers "METHOD /path" with canned JSON.
type stubBackend struct {
	mu     sync.Mutex
	routes map[string]string
	status map[string]int
	calls  []string
}

func (s *stubBackend) on(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = body
	s.status[method+" "+path] = status
}

func (s *stubBackend) called(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c == key {
			return true
		}
	}
	return false
}

func (s *stubBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	_, _ = io.Copy(io.Discard, r.Body)

	s.mu.Lock()
	s.calls = append(s.calls, key)
	body, ok := s.routes[key]
	status := s.status[key]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func newTestRouter(t *testing.T) (*mux.Router, *stubBackend) {
	t.Helper()
	stub := &stubBackend{routes: map[string]string{}, status: map[string]int{}}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	stub.on("GET", "/api/sample-types", 200, `[{"sample_type_id":1,"type_name":"Agua"}]`)
	stub.on("GET", "/api/service-types", 200, `[{"service_type_id":1,"service_name":"pH","unit_price":10},{"service_type_id":2,"service_name":"Metales","unit_price":25.5}]`)
	stub.on("GET", "/api/sample-status", 200, `[]`)
	stub.on("GET", "/api/samples", 200, `[
		{"sample_id":1,"sample_code":"LAB-2025-001","collection_date":"2025-10-01","collection_location":"Río Rímac","sample_type_id":1,"current_status_id":1},
		{"sample_id":2,"sample_code":"LAB-2025-002","collection_date":"2025-10-02","collection_location":"Pozo","sample_type_id":1,"current_status_id":4}
	]`)

	client := backend.New(srv.URL, 5*time.Second, srv.Client(), nil)
	catalog := services.NewCatalogService(client, nil, nil)
	samples := services.NewSampleService(client, catalog, nil, nil)
	clients := services.NewClientService(client, nil, nil)
	requests := services.NewRequestService(client, catalog, nil, nil)
	results := services.NewResultService(client, catalog, nil, nil)
	documents := services.NewDocumentService(client, nil, nil, nil)
	reports := services.NewReportService(samples, clients, requests, results, nil, nil)

	router := NewRouter(Handlers{
		Samples:   handlers.NewSampleHandler(samples, documents, results),
		Clients:   handlers.NewClientHandler(clients),
		Requests:  handlers.NewRequestHandler(requests, reports),
		Results:   handlers.NewResultHandler(results),
		Catalog:   handlers.NewCatalogHandler(catalog),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(client, nil)),
		Reports:   handlers.NewReportHandler(reports),
		Documents: handlers.NewDocumentHandler(documents),
		Health:    handlers.NewHealthHandler(health.NewHealthChecker(client, nil, nil)),
	})
	return router, stub
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestListSamples(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, "GET", "/api/samples", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeJSON(t, rec)
	items, ok := body["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestInvalidIDIsBadRequest(t *testing.T) {
	router, stub := newTestRouter(t)

	rec := serve(router, "GET", "/api/samples/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, stub.called("GET /api/samples/abc"))
}

func TestBackendStatusIsPropagated(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, "GET", "/api/samples/77", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, decodeJSON(t, rec)["error"])
}

func TestMarkAnalyzedConflict(t *testing.T) {
	router, stub := newTestRouter(t)
	stub.on("GET", "/api/samples/2", 200, `{"sample_id":2,"current_status_id":4}`)

	rec := serve(router, "POST", "/api/samples/2/analyzed", `{"comments":"ok"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, stub.called("PUT /api/samples/2"))
}

func TestCreateSampleValidationFields(t *testing.T) {
	router, stub := newTestRouter(t)

	rec := serve(router, "POST", "/api/samples", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeJSON(t, rec)
	assert.NotEmpty(t, body["fields"])
	assert.False(t, stub.called("POST /api/samples"))
}

func TestMalformedBody(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, "POST", "/api/requests/cart", `{"lines":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelWithoutReason(t *testing.T) {
	router, stub := newTestRouter(t)

	rec := serve(router, "POST", "/api/requests/4/cancel", `{"reason":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, stub.called("PATCH /api/requests/4"))
}

func TestCartPricesLines(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, "POST", "/api/requests/cart",
		`{"lines":[{"service_type_id":1,"quantity":"2"}],"add":{"service_type_id":2,"quantity":"1"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeJSON(t, rec)
	assert.Len(t, body["items"], 2)
	assert.InDelta(t, 45.5, body["total"], 0.001)
	assert.Equal(t, false, body["full"])
}

func TestExportCSVAttachment(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, "GET", "/api/reports/samples/csv?selected=2", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Reporte_Muestras_")
	assert.Contains(t, rec.Body.String(), "LAB-2025-002")
	assert.NotContains(t, rec.Body.String(), "LAB-2025-001")
}

func TestExportStaleSelectionIsNotWidened(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, "GET", "/api/reports/samples/csv?selected=99", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotContains(t, rec.Body.String(), "LAB-2025-001")
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

func TestExportUnknownFormat(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, "GET", "/api/reports/samples/doc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelectedSummaryDoesNotReload(t *testing.T) {
	router, stub := newTestRouter(t)
	stub.on("GET", "/api/samples", 500, `{"error":"db down"}`)

	rec := serve(router, "POST", "/api/summary/samples/selected", `{
		"cards":[{"key":"total","value":7},{"key":"analyzed","value":3},{"key":"pending","value":4},{"key":"selected","value":0}],
		"selected":[1,2,2]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, stub.called("GET /api/samples"))

	var body services.SelectionSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 7, body.Cards[0].Value)
	assert.Equal(t, 4, body.Cards[2].Value)
	assert.Equal(t, 2, body.Cards[3].Value)
	assert.Equal(t, []int{1, 2}, body.Selection.Selected)
}

func TestSelectedSummaryUnknownEntity(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, "POST", "/api/summary/invoices/selected", `{"selected":[1]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadinessFollowsBackend(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, "GET", "/health/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status health.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, health.StatusHealthy, status.Status)
	assert.Equal(t, health.StatusDisabled, status.Components["database"].Status)
}

func TestActionLogsNotMountedWithoutDatabase(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, "GET", "/api/action-logs", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Ruta no encontrada", decodeJSON(t, rec)["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	serve(router, "GET", "/api/samples", "")
	rec := serve(router, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
