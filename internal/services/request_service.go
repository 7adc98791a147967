package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"lab-reception/internal/backend"
	"lab-reception/internal/cart"
	"lab-reception/internal/models"
	"lab-reception/internal/selection"
	"lab-reception/internal/summary"
	"lab-reception/internal/timeutil"
	"lab-reception/internal/validate"

	"go.uber.org/zap"
)

// RequestRow is a service request as rendered in the list.
type RequestRow struct {
	models.ServiceRequest
	CustomerName string `json:"customer_name"`
	DateLabel    string `json:"date_label"`
	ItemCount    int    `json:"item_count"`
}

type RequestListView = ListView[RequestRow, summary.RequestCounts]

// RequestDetail is a request with the samples received for it.
type RequestDetail struct {
	RequestRow
	Samples []models.Sample `json:"samples"`
}

// CartLine is one line as held by the browser.
type CartLine struct {
	ServiceTypeID int           `json:"service_type_id"`
	Quantity      QuantityField `json:"quantity"`
}

// CartOperation replays the browser cart and applies at most one change.
type CartOperation struct {
	Lines  []CartLine `json:"lines"`
	Add    *CartLine  `json:"add,omitempty"`
	Remove int        `json:"remove_temp_id,omitempty"`
}

// CartView is the priced cart plus the dropdown options.
type CartView struct {
	Items   []cart.Item   `json:"items"`
	Total   float64       `json:"total"`
	Full    bool          `json:"full"`
	Options []cart.Option `json:"options"`
	Error   string        `json:"error,omitempty"`
}

// CreateRequestForm is the new request form with its cart.
type CreateRequestForm struct {
	CustomerID int        `json:"customer_id"`
	Notes      string     `json:"notes"`
	Items      []CartLine `json:"items"`
}

type RequestService struct {
	Backend *backend.Client
	Catalog *CatalogService
	audit   audit
	logger  *zap.Logger
}

func NewRequestService(client *backend.Client, catalog *CatalogService, recorder ActionRecorder, logger *zap.Logger) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("requests")
	return &RequestService{
		Backend: client,
		Catalog: catalog,
		audit:   audit{recorder: recorder, logger: logger},
		logger:  logger,
	}
}

func newRequestRow(r models.ServiceRequest, services map[int]models.ServiceType) RequestRow {
	items := make([]models.RequestItem, len(r.Items))
	copy(items, r.Items)
	for i := range items {
		if items[i].ServiceName != "" {
			continue
		}
		if st, ok := services[items[i].ServiceTypeID]; ok {
			items[i].ServiceName = st.ServiceName
		} else {
			items[i].ServiceName = cart.UnknownServiceName
		}
	}
	r.Items = items

	name := "Cliente #" + strconv.Itoa(r.CustomerKey())
	if r.Customer != nil {
		if full := strings.TrimSpace(r.Customer.Name + " " + r.Customer.Surname); full != "" {
			name = full
		}
	}
	return RequestRow{
		ServiceRequest: r,
		CustomerName:   name,
		DateLabel:      timeutil.FormatDisplay(r.RequestDate),
		ItemCount:      len(items),
	}
}

func (s *RequestService) serviceTypes(ctx context.Context) map[int]models.ServiceType {
	byID, err := s.Catalog.serviceTypesByID(ctx)
	if err != nil {
		s.logger.Warn("service types unavailable", zap.Error(err))
	}
	return byID
}

// List reloads requests. q.View filters by status (PENDIENTE, COMPLETADA, CANCELADA).
func (s *RequestService) List(ctx context.Context, q ListQuery) (*RequestListView, error) {
	requests, err := s.Backend.ListRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	unique := summary.Dedupe(requests, func(r models.ServiceRequest) int { return r.ServiceRequestID })
	services := s.serviceTypes(ctx)
	status := strings.ToUpper(strings.TrimSpace(q.View))

	rows := make([]RequestRow, 0, len(unique))
	ids := make([]int, 0, len(unique))
	for _, r := range unique {
		if status != "" && r.Status != status {
			continue
		}
		row := newRequestRow(r, services)
		if !matches(q.Search, row.CustomerName, row.Notes, row.Status, strconv.Itoa(row.ServiceRequestID)) {
			continue
		}
		rows = append(rows, row)
		ids = append(ids, r.ServiceRequestID)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ServiceRequestID > rows[j].ServiceRequestID })

	sel := selection.Reconcile(q.Selected, q.Fingerprint, ids)
	counts := summary.Requests(unique, len(sel.Selected))
	return &RequestListView{Items: rows, Counts: counts, Cards: counts.Cards(), Selection: sel}, nil
}

// Get returns a request with item names and its samples.
func (s *RequestService) Get(ctx context.Context, id int) (*RequestDetail, error) {
	r, err := s.Backend.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	samples, err := s.Backend.ListSamplesByRequest(ctx, id)
	if err != nil {
		s.logger.Warn("request samples unavailable", zap.Int("service_request_id", id), zap.Error(err))
		samples = []models.Sample{}
	}
	return &RequestDetail{RequestRow: newRequestRow(*r, s.serviceTypes(ctx)), Samples: samples}, nil
}

// buildCart replays lines into a builder priced from the active service types.
// The first rejected line stops the replay.
func (s *RequestService) buildCart(ctx context.Context, lines []CartLine) (*cart.Builder, []models.ServiceType, error) {
	catalog, err := s.Catalog.ActiveServiceTypes(ctx)
	if err != nil {
		return nil, nil, err
	}
	b := cart.NewBuilder(catalog)
	for i, l := range lines {
		if _, err := b.Add(l.ServiceTypeID, cart.ParseQuantity(string(l.Quantity))); err != nil {
			return b, catalog, fmt.Errorf("línea %d: %w", i+1, err)
		}
	}
	return b, catalog, nil
}

// Cart prices the browser cart and applies one add or remove. A rejected
// change leaves the replayed cart intact and is reported in Error.
func (s *RequestService) Cart(ctx context.Context, op CartOperation) (*CartView, error) {
	b, catalog, err := s.buildCart(ctx, op.Lines)
	if b == nil {
		return nil, err
	}

	var opErr error
	switch {
	case err != nil:
		opErr = err
	case op.Add != nil:
		_, opErr = b.Add(op.Add.ServiceTypeID, cart.ParseQuantity(string(op.Add.Quantity)))
	case op.Remove > 0:
		opErr = b.Remove(op.Remove)
	}

	view := &CartView{
		Items:   b.Items(),
		Total:   b.Total(),
		Full:    b.Full(),
		Options: b.Available(catalog),
	}
	if opErr != nil {
		view.Error = opErr.Error()
	}
	return view, nil
}

// Create sends a new request built from the cart and reloads the list.
func (s *RequestService) Create(ctx context.Context, form CreateRequestForm, q ListQuery) (*models.ServiceRequest, *RequestListView, error) {
	if form.CustomerID <= 0 {
		return nil, nil, validate.ErrCustomerRequired
	}
	if len(form.Items) == 0 {
		return nil, nil, validate.ErrEmptyCart
	}
	b, _, err := s.buildCart(ctx, form.Items)
	if err != nil {
		return nil, nil, err
	}
	payload := b.Payload()
	if err := validate.NewRequest(form.CustomerID, payload); err != nil {
		return nil, nil, err
	}

	created, err := s.Backend.CreateRequest(ctx, models.CreateRequestInput{
		CustomerID: form.CustomerID,
		Notes:      strings.TrimSpace(form.Notes),
		Items:      payload,
	})
	id := 0
	if created != nil {
		id = created.ServiceRequestID
	}
	s.audit.record(ctx, "create", "request", id, fmt.Sprintf("%d items", len(payload)), err)
	if err != nil {
		return nil, nil, err
	}
	view, err := s.List(ctx, q)
	return created, view, err
}

// Update edits the request header.
func (s *RequestService) Update(ctx context.Context, id int, in models.UpdateRequestInput, q ListQuery) (*RequestListView, error) {
	in.Status = strings.ToUpper(strings.TrimSpace(in.Status))
	in.Notes = strings.TrimSpace(in.Notes)
	if err := validate.RequestUpdate(in); err != nil {
		return nil, err
	}
	err := s.Backend.UpdateRequest(ctx, id, in)
	s.audit.record(ctx, "update", "request", id, in.Status, err)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, q)
}

// Cancel sets the request to CANCELADA. The reason is checked before any backend call.
func (s *RequestService) Cancel(ctx context.Context, id int, rawReason string, q ListQuery) (*RequestListView, error) {
	reason, err := validate.CancelReason(rawReason)
	if err != nil {
		return nil, err
	}
	err = s.Backend.CancelRequest(ctx, id, reason)
	s.audit.record(ctx, "cancel", "request", id, reason, err)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, q)
}

// Restore reopens a canceled request as PENDIENTE.
func (s *RequestService) Restore(ctx context.Context, id int, q ListQuery) (*RequestListView, error) {
	r, err := s.Backend.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != models.RequestCanceled {
		return nil, ErrActionNotAllowed
	}
	err = s.Backend.UpdateRequest(ctx, id, models.UpdateRequestInput{
		CustomerID: r.CustomerKey(),
		Status:     models.RequestPending,
		Notes:      models.RestoreNote,
	})
	s.audit.record(ctx, "restore", "request", id, "", err)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, q)
}
