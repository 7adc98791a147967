package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"lab-reception/internal/backend"
	"lab-reception/internal/cart"
	"lab-reception/internal/logging"
	"lab-reception/internal/models"
	"lab-reception/internal/summary"
	"lab-reception/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// fakeBackend answers "METHOD /path" keys with canned JSON and records every call.
type fakeBackend struct {
	mu     sync.Mutex
	routes map[string]fakeResponse
	calls  []string
	bodies map[string][]byte
	// after swaps a route once its trigger key has been served.
	after map[string]func()
}

type fakeResponse struct {
	status      int
	body        string
	contentType string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *backend.Client) {
	t.Helper()
	f := &fakeBackend{routes: map[string]fakeResponse{}, bodies: map[string][]byte{}, after: map[string]func(){}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, backend.New(srv.URL, 5*time.Second, srv.Client(), nil)
}

func (f *fakeBackend) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = fakeResponse{status: status, body: body, contentType: "application/json"}
}

func (f *fakeBackend) onPDF(path string, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes["GET "+path] = fakeResponse{status: http.StatusOK, body: body, contentType: "application/pdf"}
}

// thenOn replaces method+path with a new response once trigger was served.
func (f *fakeBackend) thenOn(trigger, method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.after[trigger] = func() {
		f.routes[method+" "+path] = fakeResponse{status: status, body: body, contentType: "application/json"}
	}
}

// callIndex returns the position of the first call to key, or -1.
func (f *fakeBackend) callIndex(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.calls {
		if c == key {
			return i
		}
	}
	return -1
}

// lastCallIndex returns the position of the last call to key, or -1.
func (f *fakeBackend) lastCallIndex(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i] == key {
			return i
		}
	}
	return -1
}

func (f *fakeBackend) called(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}

func (f *fakeBackend) body(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[key]
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	raw, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.bodies[key] = raw
	resp, ok := f.routes[key]
	if swap, found := f.after[key]; found {
		swap()
		delete(f.after, key)
	}
	f.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
		return
	}
	w.Header().Set("Content-Type", resp.contentType)
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

// recorder collects audit entries.
type recorder struct {
	mu      sync.Mutex
	entries []models.ActionLog
}

func (r *recorder) CreateActionLog(_ context.Context, log *models.ActionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *log)
	return nil
}

const (
	sampleTypesJSON  = `[{"sample_type_id":1,"type_name":"Agua"},{"sample_type_id":2,"type_name":"Suelo"}]`
	serviceTypesJSON = `[{"service_type_id":1,"service_name":"pH","unit_price":10},{"service_type_id":2,"service_name":"Metales","unit_price":25.5},{"service_type_id":3,"service_name":"Coliformes","unit_price":30},{"service_type_id":4,"service_name":"DBO","unit_price":15},{"service_type_id":5,"service_name":"Turbidez","unit_price":8},{"service_type_id":6,"service_name":"Nitratos","unit_price":12},{"service_type_id":7,"service_name":"Inactivo","unit_price":1,"is_active":false}]`
	samplesJSON      = `[
		{"sample_id":1,"sample_code":"LAB-2025-001","collection_date":"2025-10-01T00:00:00","collection_location":"Río Rímac","sample_type_id":1,"current_status_id":1},
		{"sample_id":2,"sample_code":"LAB-2025-007","collection_date":"2025-10-02","collection_location":"Pozo","sample_type_id":2,"current_status_id":4},
		{"sample_id":3,"sample_code":"LAB-2025-003","collection_date":"2025-10-03","collection_location":"Canal","sample_type_id":9,"current_status_id":12},
		{"sample_id":2,"sample_code":"LAB-2025-007","collection_date":"2025-10-02","collection_location":"Pozo","sample_type_id":2,"current_status_id":4}
	]`
)

func newCatalog(t *testing.T) (*fakeBackend, *backend.Client, *CatalogService) {
	t.Helper()
	fb, client := newFakeBackend(t)
	fb.on("GET", "/api/sample-types", 200, sampleTypesJSON)
	fb.on("GET", "/api/service-types", 200, serviceTypesJSON)
	return fb, client, NewCatalogService(client, nil, nil)
}

func TestSampleListClassifiesAndSorts(t *testing.T) {
	fb, client, catalog := newCatalog(t)
	fb.on("GET", "/api/samples", 200, samplesJSON)
	svc := NewSampleService(client, catalog, nil, nil)

	view, err := svc.List(context.Background(), ListQuery{})
	require.NoError(t, err)

	require.Len(t, view.Items, 2, "archived sample is hidden in the active view")
	assert.Equal(t, 2, view.Items[0].SampleID)
	assert.Equal(t, 1, view.Items[1].SampleID)
	assert.True(t, view.Items[0].Classification.IsAnalyzed)
	assert.True(t, view.Items[1].Classification.IsPending)
	assert.Equal(t, "Suelo", view.Items[0].SampleTypeName)
	assert.Equal(t, "01/10/2025", view.Items[1].CollectionLabel)

	assert.Equal(t, 2, view.Counts.Total)
	assert.Equal(t, 1, view.Counts.Analyzed)
	assert.Equal(t, 1, view.Counts.Pending)
	assert.Equal(t, 1, view.Counts.Archived)

	archived, err := svc.List(context.Background(), ListQuery{View: SampleViewArchived})
	require.NoError(t, err)
	require.Len(t, archived.Items, 1)
	assert.Equal(t, unknownName, archived.Items[0].SampleTypeName)
	require.Len(t, archived.Items[0].Actions, 1)
}

func TestSampleListSearchAndSelection(t *testing.T) {
	fb, client, catalog := newCatalog(t)
	fb.on("GET", "/api/samples", 200, samplesJSON)
	svc := NewSampleService(client, catalog, nil, nil)

	view, err := svc.List(context.Background(), ListQuery{Search: "pozo", Selected: []int{2, 99}})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, []int{2}, view.Selection.Selected)
	assert.Equal(t, 1, view.Counts.Selected)
}

func TestNextSampleCode(t *testing.T) {
	samples := []models.Sample{
		{SampleCode: "LAB-2025-001"},
		{SampleCode: "LAB-2025-012"},
		{SampleCode: "LAB-2024-090"},
		{SampleCode: "otro"},
	}
	assert.Equal(t, "LAB-2025-013", NextSampleCode(samples, 2025))
	assert.Equal(t, "LAB-2026-001", NextSampleCode(samples, 2026))
	assert.Equal(t, "LAB-2025-001", NextSampleCode(nil, 2025))
}

func TestSampleCreateGeneratesCode(t *testing.T) {
	fb, client, catalog := newCatalog(t)
	fb.on("GET", "/api/samples", 200, samplesJSON)
	fb.on("POST", "/api/samples", 201, `{"sample_id":10,"sample_code":"LAB-2025-008"}`)
	rec := &recorder{}
	svc := NewSampleService(client, catalog, rec, nil)
	svc.now = func() time.Time { return time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC) }

	created, view, err := svc.Create(context.Background(), models.SampleInput{
		CollectionDate:     "2025-10-20T08:00:00",
		CollectionLocation: " Laguna ",
		SampleTypeID:       1,
		ServiceRequestID:   3,
	}, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 10, created.SampleID)
	assert.NotNil(t, view)

	var sent models.SampleInput
	require.NoError(t, json.Unmarshal(fb.body("POST /api/samples"), &sent))
	assert.Equal(t, "LAB-2025-008", sent.SampleCode)
	assert.Equal(t, "2025-10-20", sent.CollectionDate)
	assert.Equal(t, "Laguna", sent.CollectionLocation)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "create", rec.entries[0].ActionType)
	assert.Equal(t, "ok", rec.entries[0].Outcome)
}

func TestMarkAnalyzedRejectsAnalyzedSample(t *testing.T) {
	fb, client, catalog := newCatalog(t)
	fb.on("GET", "/api/samples/2", 200, `{"sample_id":2,"current_status_id":4}`)
	svc := NewSampleService(client, catalog, nil, nil)

	_, err := svc.MarkAnalyzed(context.Background(), 2, "", ListQuery{})
	assert.ErrorIs(t, err, ErrActionNotAllowed)
	assert.False(t, fb.called("PUT /api/samples/2"))
	assert.False(t, fb.called("PATCH /api/samples/2"))
}

func TestArchiveRejectsArchivedSample(t *testing.T) {
	fb, client, catalog := newCatalog(t)
	fb.on("GET", "/api/samples/3", 200, `{"sample_id":3,"current_status_id":1,"is_deleted":1}`)
	svc := NewSampleService(client, catalog, nil, nil)

	_, err := svc.Archive(context.Background(), 3, "duplicada", ListQuery{})
	assert.ErrorIs(t, err, ErrActionNotAllowed)
	assert.False(t, fb.called("DELETE /api/samples/3"))
}

func TestCancelEmptyReasonMakesNoCall(t *testing.T) {
	fb, client, catalog := newCatalog(t)
	svc := NewRequestService(client, catalog, nil, nil)

	_, err := svc.Cancel(context.Background(), 4, "", ListQuery{})
	assert.ErrorIs(t, err, validate.ErrEmptyReason)
	assert.False(t, fb.called("PATCH /api/requests/4"))
}

func TestCancelBlankReasonUsesDefault(t *testing.T) {
	fb, client, catalog := newCatalog(t)
	fb.on("PATCH", "/api/requests/4", 200, `{"success":true}`)
	fb.on("GET", "/api/requests", 200, `[]`)
	svc := NewRequestService(client, catalog, nil, nil)

	_, err := svc.Cancel(context.Background(), 4, "   ", ListQuery{})
	require.NoError(t, err)

	var sent models.CancelRequestInput
	require.NoError(t, json.Unmarshal(fb.body("PATCH /api/requests/4"), &sent))
	assert.Equal(t, models.DefaultCancelReason, sent.Reason)
}

func TestRestoreRequestRequiresCanceled(t *testing.T) {
	fb, client, catalog := newCatalog(t)
	fb.on("GET", "/api/requests/5", 200, `{"service_request_id":5,"customer_id":2,"status":"PENDIENTE"}`)
	svc := NewRequestService(client, catalog, nil, nil)

	_, err := svc.Restore(context.Background(), 5, ListQuery{})
	assert.ErrorIs(t, err, ErrActionNotAllowed)
	assert.False(t, fb.called("PUT /api/requests/5"))
}

func TestCartOperations(t *testing.T) {
	_, client, catalog := newCatalog(t)
	svc := NewRequestService(client, catalog, nil, nil)
	ctx := context.Background()

	lines := []CartLine{
		{ServiceTypeID: 1, Quantity: "2"},
		{ServiceTypeID: 2, Quantity: "1"},
		{ServiceTypeID: 3, Quantity: "1"},
		{ServiceTypeID: 4, Quantity: "1"},
		{ServiceTypeID: 5, Quantity: "1"},
	}

	view, err := svc.Cart(ctx, CartOperation{Lines: lines, Add: &CartLine{ServiceTypeID: 6, Quantity: "1"}})
	require.NoError(t, err)
	assert.Len(t, view.Items, 5)
	assert.True(t, view.Full)
	assert.Equal(t, cart.ErrCartFull.Error(), view.Error)
	assert.InDelta(t, 98.5, view.Total, 0.001)

	view, err = svc.Cart(ctx, CartOperation{Lines: lines[:1], Add: &CartLine{ServiceTypeID: 1, Quantity: "1"}})
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
	assert.Equal(t, cart.ErrDuplicateService.Error(), view.Error)

	view, err = svc.Cart(ctx, CartOperation{Add: &CartLine{ServiceTypeID: 2, Quantity: "abc"}})
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, cart.ErrInvalidQuantity.Error(), view.Error)

	for _, opt := range view.Options {
		assert.NotEqual(t, 7, opt.ServiceTypeID, "inactive service types are not offered")
	}
}

func TestCreateRequestChecksBeforeBackend(t *testing.T) {
	fb, client, catalog := newCatalog(t)
	svc := NewRequestService(client, catalog, nil, nil)
	ctx := context.Background()

	_, _, err := svc.Create(ctx, CreateRequestForm{CustomerID: 0, Items: []CartLine{{ServiceTypeID: 1, Quantity: "1"}}}, ListQuery{})
	assert.ErrorIs(t, err, validate.ErrCustomerRequired)

	_, _, err = svc.Create(ctx, CreateRequestForm{CustomerID: 2}, ListQuery{})
	assert.ErrorIs(t, err, validate.ErrEmptyCart)

	assert.False(t, fb.called("POST /api/requests"))
}

func TestCreateRequestSendsOnlyIDAndQuantity(t *testing.T) {
	fb, client, catalog := newCatalog(t)
	fb.on("POST", "/api/requests", 201, `{"service_request_id":30,"customer_id":2,"status":"PENDIENTE"}`)
	fb.on("GET", "/api/requests", 200, `[{"service_request_id":30,"customer_id":2,"status":"PENDIENTE"}]`)
	svc := NewRequestService(client, catalog, nil, nil)

	created, view, err := svc.Create(context.Background(), CreateRequestForm{
		CustomerID: 2,
		Notes:      "  urgente ",
		Items:      []CartLine{{ServiceTypeID: 2, Quantity: "3"}},
	}, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 30, created.ServiceRequestID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Cliente #2", view.Items[0].CustomerName)

	assert.JSONEq(t,
		`{"customer_id":2,"notes":"urgente","items":[{"service_type_id":2,"quantity":3}]}`,
		string(fb.body("POST /api/requests")))
}

func TestCreateClientReportsOrphanedAddress(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on("POST", "/api/addresses", 201, `{"id":55}`)
	fb.on("POST", "/api/customers", 500, `{"error":"duplicado"}`)
	svc := NewClientService(client, nil, nil)

	_, _, err := svc.CreateWithAddress(context.Background(), models.CreateClientRequest{
		Name:        "Ana",
		Surname:     "Quispe",
		Email:       "ana@lab.pe",
		PhoneNumber: "987654321",
		Address: models.AddressInput{
			Department: "Lima", Province: "Lima", District: "Miraflores", Street: "Av. Larco 123",
		},
	}, ListQuery{})

	var orphan *OrphanedAddressError
	require.True(t, errors.As(err, &orphan))
	assert.Equal(t, 55, orphan.AddressID)

	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "duplicado", apiErr.Message)

	var sent models.CustomerInput
	require.NoError(t, json.Unmarshal(fb.body("POST /api/customers"), &sent))
	assert.Equal(t, 55, sent.AddressID)
	assert.Equal(t, models.CustomerActive, sent.State)
}

func TestCreateClientValidationMakesNoCall(t *testing.T) {
	fb, client := newFakeBackend(t)
	svc := NewClientService(client, nil, nil)

	_, _, err := svc.CreateWithAddress(context.Background(), models.CreateClientRequest{Name: "Ana1"}, ListQuery{})
	errs, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "street")
	assert.False(t, fb.called("POST /api/addresses"))
}

func TestDashboardDegradesFailedLists(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on("GET", "/api/customers", 500, `{"error":"boom"}`)
	fb.on("GET", "/api/requests", 200, `[{"service_request_id":1,"customer_id":2,"status":"PENDIENTE","request_date":"2025-10-19","customer":{"id":2,"name":"Ana","surname":"Quispe"}}]`)
	fb.on("GET", "/api/samples", 200, samplesJSON)
	fb.on("GET", "/api/analysis-results", 200, `[]`)
	svc := NewDashboardService(client, nil)
	svc.now = func() time.Time { return time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC) }

	d := svc.Load(context.Background())
	assert.Equal(t, []string{"clients"}, d.Degraded)
	assert.Equal(t, 0, d.Stats.Clients.Total)
	assert.Equal(t, 1, d.Stats.Requests.InProgress)

	require.Len(t, d.Tasks, 2)
	assert.Equal(t, "Análisis Pendientes", d.Tasks[0].Title)
	assert.Equal(t, "1 muestras requieren atención", d.Tasks[0].Subtitle)
	assert.Equal(t, "Solicitudes Nuevas", d.Tasks[1].Title)

	require.Len(t, d.Activity, 4)
	assert.Equal(t, "Solicitud #1", d.Activity[0].Name)
	assert.Equal(t, "AQ", d.Activity[0].Initials)
}

func TestPendingTasksAllClear(t *testing.T) {
	tasks := pendingTasks(DashboardStats{})
	require.Len(t, tasks, 1)
	assert.Equal(t, "Sin pendientes", tasks[0].Title)
}

func TestDocumentFilenameUsesSampleCode(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.onPDF("/api/documents/final-report-pdf/1", "%PDF-1")
	fb.on("GET", "/api/samples/1", 200, `{"sample_id":1,"sample_code":"LAB-2025-001"}`)
	svc := NewDocumentService(client, nil, nil, nil)

	doc, err := svc.PDF(context.Background(), backend.FinalReport, 1)
	require.NoError(t, err)
	assert.Equal(t, "reporte_final_LAB-2025-001.pdf", doc.Filename)
	assert.Equal(t, "%PDF-1", string(doc.Data))

	_, err = svc.PDF(context.Background(), backend.StatusSummary, 1)
	assert.ErrorIs(t, err, ErrNoPDF)
}

type memArchive struct {
	mu   sync.Mutex
	keys []string
}

func (m *memArchive) Put(_ context.Context, name string, _ []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, "docs/"+name)
	return "docs/" + name, nil
}

func TestDocumentIsArchived(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.onPDF("/api/documents/chain-of-custody-pdf/1", "%PDF-1")
	fb.on("GET", "/api/samples/1", 200, `{"sample_id":1,"sample_code":"LAB-2025-001"}`)
	arch := &memArchive{}
	svc := NewDocumentService(client, arch, nil, nil)

	doc, err := svc.PDF(context.Background(), backend.ChainOfCustody, 1)
	require.NoError(t, err)
	assert.Equal(t, "docs/cadena_custodia_LAB-2025-001.pdf", doc.ArchiveKey)
}

func TestBulkZipSkipsFailures(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.onPDF("/api/documents/final-report-pdf/1", "%PDF-1")
	fb.onPDF("/api/documents/final-report-pdf/2", "%PDF-2")
	fb.on("GET", "/api/samples/1", 200, `{"sample_id":1,"sample_code":"LAB-2025-001"}`)
	fb.on("GET", "/api/samples/2", 200, `{"sample_id":2,"sample_code":"LAB-2025-002"}`)
	svc := NewDocumentService(client, nil, nil, nil)

	data, failed, err := svc.BulkZip(context.Background(), backend.FinalReport, []int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, failed)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "reporte_final_LAB-2025-001.pdf", zr.File[0].Name)
	assert.Equal(t, "reporte_final_LAB-2025-002.pdf", zr.File[1].Name)
}

func TestBulkZipDedupesIDsAndNames(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.onPDF("/api/documents/final-report-pdf/1", "%PDF-1")
	fb.onPDF("/api/documents/final-report-pdf/2", "%PDF-2")
	fb.on("GET", "/api/samples/1", 200, `{"sample_id":1,"sample_code":"../LAB"}`)
	fb.on("GET", "/api/samples/2", 200, `{"sample_id":2,"sample_code":"__/LAB"}`)
	svc := NewDocumentService(client, nil, nil, nil)

	data, failed, err := svc.BulkZip(context.Background(), backend.FinalReport, []int{1, 1, 2, 1})
	require.NoError(t, err)
	assert.Empty(t, failed)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	names := []string{zr.File[0].Name, zr.File[1].Name}
	assert.ElementsMatch(t, []string{"reporte_final____LAB.pdf", "reporte_final____LAB_2.pdf"}, names)
	for _, n := range names {
		assert.NotContains(t, n, "/")
	}
}

func newReportService(t *testing.T) (*fakeBackend, *ReportService) {
	t.Helper()
	fb, client, catalog := newCatalog(t)
	fb.on("GET", "/api/samples", 200, samplesJSON)
	fb.on("GET", "/api/requests", 200, `[{"service_request_id":1,"customer_id":2,"status":"PENDIENTE","request_date":"2025-10-19","total_estimated":35.5,"items":[{"service_type_id":1,"quantity":1},{"service_type_id":2,"quantity":1}]}]`)
	svc := NewReportService(
		NewSampleService(client, catalog, nil, nil),
		NewClientService(client, nil, nil),
		NewRequestService(client, catalog, nil, nil),
		NewResultService(client, catalog, nil, nil),
		nil, nil,
	)
	svc.now = func() time.Time { return time.Date(2025, 10, 20, 15, 0, 0, 0, time.UTC) }
	return fb, svc
}

func TestExportCSVUsesSelection(t *testing.T) {
	_, svc := newReportService(t)

	out, err := svc.Export(context.Background(), EntitySamples, FormatCSV, ListQuery{Selected: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, "Reporte_Muestras_2025-10-20.csv", out.Filename)

	records, err := csv.NewReader(bytes.NewReader(out.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Código", records[0][0])
	assert.Equal(t, []string{"LAB-2025-001", "1", "01/10/2025", "Río Rímac", "Agua", records[1][5]}, records[1])
}

func TestExportRejectsStaleSelection(t *testing.T) {
	_, svc := newReportService(t)
	ctx := context.Background()

	_, err := svc.Export(ctx, EntitySamples, FormatCSV, ListQuery{Selected: []int{99}})
	assert.ErrorIs(t, err, ErrStaleSelection)

	_, err = svc.Export(ctx, EntitySamples, FormatCSV, ListQuery{Selected: []int{1}, Fingerprint: "0000000000000000"})
	assert.ErrorIs(t, err, ErrStaleSelection)

	out, err := svc.Export(ctx, EntitySamples, FormatCSV, ListQuery{Selected: []int{1, 99}})
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(out.Data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2, "header plus the one surviving selected row")
}

func TestExportXLSXRequests(t *testing.T) {
	_, svc := newReportService(t)

	out, err := svc.Export(context.Background(), EntityRequests, FormatXLSX, ListQuery{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.Filename, "Reporte_Solicitudes_"))

	f, err := excelize.OpenReader(bytes.NewReader(out.Data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Solicitudes", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID Solicitud", header)
	services, err := f.GetCellValue("Solicitudes", "D2")
	require.NoError(t, err)
	assert.Equal(t, "pH, Metales", services)
}

func TestExportPDF(t *testing.T) {
	_, svc := newReportService(t)

	out, err := svc.Export(context.Background(), EntitySamples, FormatPDF, ListQuery{View: SampleViewAll})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.True(t, bytes.HasPrefix(out.Data, []byte("%PDF")))
}

func TestExportNothing(t *testing.T) {
	_, svc := newReportService(t)

	_, err := svc.Export(context.Background(), EntitySamples, FormatCSV, ListQuery{Search: "no existe"})
	assert.ErrorIs(t, err, ErrNothingToExport)

	_, err = svc.Export(context.Background(), EntitySamples, "doc", ListQuery{})
	assert.ErrorIs(t, err, ErrUnknownExport)
}

func TestQuantityFieldAcceptsNumbersAndStrings(t *testing.T) {
	var lines []CartLine
	require.NoError(t, json.Unmarshal([]byte(`[{"service_type_id":1,"quantity":2},{"service_type_id":2,"quantity":"abc"}]`), &lines))
	assert.Equal(t, QuantityField("2"), lines[0].Quantity)
	assert.Equal(t, QuantityField("abc"), lines[1].Quantity)
}

func TestResultListCountsAndDeletedToggle(t *testing.T) {
	fb, client, catalog := newCatalog(t)
	fb.on("GET", "/api/analysis-parameters", 200, `[{"analysis_parameter_id":1,"parameter_name":"pH","unit":"u"}]`)
	fb.on("GET", "/api/analysis-results", 200, `[
		{"analysis_result_id":1,"sample_id":10,"analysis_parameter_id":1,"result_value":7.2,"analysis_date":"2025-10-05"},
		{"analysis_result_id":2,"sample_id":11,"analysis_parameter_id":9,"result_value":"negativo","analysis_date":"2025-09-30"},
		{"analysis_result_id":3,"sample_id":10,"analysis_parameter_id":1,"result_value":6.9,"analysis_date":"2025-10-06","is_deleted":1},
		{"analysis_result_id":1,"sample_id":10,"analysis_parameter_id":1,"result_value":7.2,"analysis_date":"2025-10-05"}
	]`)
	svc := NewResultService(client, catalog, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC) }

	view, err := svc.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 2, view.Items[0].AnalysisResultID)
	assert.Equal(t, unknownName, view.Items[0].ParameterName)
	assert.Equal(t, "pH", view.Items[1].ParameterName)
	assert.Equal(t, "7.2", view.Items[1].ValueLabel)

	assert.Equal(t, 2, view.Counts.Total)
	assert.Equal(t, 1, view.Counts.ThisMonth)
	assert.Equal(t, 2, view.Counts.AnalyzedSamples)
	assert.Equal(t, 1, view.Counts.Deleted)

	all, err := svc.List(context.Background(), ListQuery{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
}

func TestResultCreateValidatesBeforeBackend(t *testing.T) {
	fb, client, catalog := newCatalog(t)
	svc := NewResultService(client, catalog, nil, nil)

	_, _, err := svc.Create(context.Background(), models.AnalysisResultInput{SampleID: 10, ResultValue: "  "}, ListQuery{})
	fields, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "analysis_parameter_id")
	assert.Contains(t, fields, "result_value")
	assert.False(t, fb.called("POST /api/analysis-results"))
}

func TestSelectedCardsUsesSelectionOnly(t *testing.T) {
	cards := summary.Cards{{Key: "total", Value: 5}, {Key: "active", Value: 4}, {Key: "inactive", Value: 1}, {Key: "selected", Value: 0}}

	out, err := SelectedCards(EntityClients, SelectionInput{Cards: cards, Selected: []int{3, 9}, IDs: []int{1, 3, 5}})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Cards[3].Value)
	assert.Equal(t, cards[0], out.Cards[0])
	assert.Equal(t, []int{3}, out.Selection.Selected)

	out, err = SelectedCards(EntityClients, SelectionInput{Cards: cards, Selected: []int{3}, Fingerprint: "stale", IDs: []int{1, 3, 5}})
	require.NoError(t, err)
	assert.True(t, out.Selection.Reset)
	assert.Equal(t, 0, out.Cards[3].Value)

	_, err = SelectedCards("invoices", SelectionInput{})
	assert.ErrorIs(t, err, ErrUnknownExport)
}

func TestClientDeactivateAndRestoreReload(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on("GET", "/api/customers", 200, `[{"customer_id":1,"name":"Ana","state":"A"},{"customer_id":2,"name":"Luis","state":"A"}]`)
	fb.on("PATCH", "/api/customers/eliminar/2", 200, `{"success":true}`)
	fb.on("PATCH", "/api/customers/restaurar/2", 200, `{"success":true}`)
	fb.thenOn("PATCH /api/customers/eliminar/2", "GET", "/api/customers", 200,
		`[{"customer_id":1,"name":"Ana","state":"A"},{"customer_id":2,"name":"Luis","state":"I"}]`)
	rec := &recorder{}
	svc := NewClientService(client, rec, nil)
	ctx := logging.WithClientIP(context.Background(), "10.0.0.7")

	view, err := svc.Deactivate(ctx, 2, ListQuery{})
	require.NoError(t, err)
	assert.Less(t, fb.callIndex("PATCH /api/customers/eliminar/2"), fb.lastCallIndex("GET /api/customers"))
	assert.Empty(t, fb.body("PATCH /api/customers/eliminar/2"))
	assert.Equal(t, 1, view.Counts.Active)
	assert.Equal(t, 1, view.Counts.Inactive)

	fb.thenOn("PATCH /api/customers/restaurar/2", "GET", "/api/customers", 200,
		`[{"customer_id":1,"name":"Ana","state":"A"},{"customer_id":2,"name":"Luis","state":"A"}]`)
	view, err = svc.Restore(ctx, 2, ListQuery{})
	require.NoError(t, err)
	assert.Less(t, fb.callIndex("PATCH /api/customers/restaurar/2"), fb.lastCallIndex("GET /api/customers"))
	assert.Empty(t, fb.body("PATCH /api/customers/restaurar/2"))
	assert.Equal(t, 2, view.Counts.Active)
	assert.Equal(t, 0, view.Counts.Inactive)

	require.Len(t, rec.entries, 2)
	assert.Equal(t, "deactivate", rec.entries[0].ActionType)
	assert.Equal(t, "restore", rec.entries[1].ActionType)
	require.NotNil(t, rec.entries[0].IPAddress)
	assert.Equal(t, "10.0.0.7", *rec.entries[0].IPAddress)
}

func TestResultDeleteAndRestoreReload(t *testing.T) {
	fb, client, catalog := newCatalog(t)
	fb.on("GET", "/api/analysis-parameters", 200, `[]`)
	fb.on("GET", "/api/analysis-results", 200, `[{"analysis_result_id":5,"sample_id":1,"analysis_parameter_id":1,"result_value":"7","analysis_date":"2025-10-05"}]`)
	fb.on("PATCH", "/api/analysis-results/5", 200, `{"success":true}`)
	fb.on("PATCH", "/api/analysis-results/restaurar/5", 200, `{"success":true}`)
	fb.thenOn("PATCH /api/analysis-results/5", "GET", "/api/analysis-results", 200,
		`[{"analysis_result_id":5,"sample_id":1,"analysis_parameter_id":1,"result_value":"7","analysis_date":"2025-10-05","is_deleted":true}]`)
	svc := NewResultService(client, catalog, nil, nil)
	ctx := context.Background()

	view, err := svc.Delete(ctx, 5, "  duplicado ", ListQuery{})
	require.NoError(t, err)
	assert.Less(t, fb.callIndex("PATCH /api/analysis-results/5"), fb.lastCallIndex("GET /api/analysis-results"))
	assert.JSONEq(t, `{"comments":"duplicado"}`, string(fb.body("PATCH /api/analysis-results/5")))
	assert.Empty(t, view.Items)
	assert.Equal(t, 1, view.Counts.Deleted)
	assert.Equal(t, 0, view.Counts.Total)

	fb.thenOn("PATCH /api/analysis-results/restaurar/5", "GET", "/api/analysis-results", 200,
		`[{"analysis_result_id":5,"sample_id":1,"analysis_parameter_id":1,"result_value":"7","analysis_date":"2025-10-05"}]`)
	view, err = svc.Restore(ctx, 5, ListQuery{})
	require.NoError(t, err)
	assert.Less(t, fb.callIndex("PATCH /api/analysis-results/restaurar/5"), fb.lastCallIndex("GET /api/analysis-results"))
	assert.Empty(t, fb.body("PATCH /api/analysis-results/restaurar/5"))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 0, view.Counts.Deleted)
	assert.Equal(t, 1, view.Counts.Total)
}

func TestFailedDeactivateDoesNotReload(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on("PATCH", "/api/customers/eliminar/2", 500, `{"error":"falló"}`)
	svc := NewClientService(client, nil, nil)

	_, err := svc.Deactivate(context.Background(), 2, ListQuery{})
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "falló", apiErr.Message)
	assert.False(t, fb.called("GET /api/customers"))
}
