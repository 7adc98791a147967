package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"lab-reception/internal/backend"
	"lab-reception/internal/models"
	"lab-reception/internal/selection"
	"lab-reception/internal/summary"
	"lab-reception/internal/validate"

	"go.uber.org/zap"
)

// OrphanedAddressError reports a client creation that failed after its
// address was already stored.
type OrphanedAddressError struct {
	AddressID int
	Err       error
}

func (e *OrphanedAddressError) Error() string {
	return fmt.Sprintf("La dirección %d se creó pero el cliente no: %v", e.AddressID, e.Err)
}

func (e *OrphanedAddressError) Unwrap() error { return e.Err }

// ClientRow is a customer as rendered in the list.
type ClientRow struct {
	models.Customer
	FullName string `json:"full_name"`
	Active   bool   `json:"active"`
}

type ClientListView = ListView[ClientRow, summary.ClientCounts]

// ClientDetail is a customer with its address and requests.
type ClientDetail struct {
	ClientRow
	Requests []models.ServiceRequest `json:"requests"`
}

// UpdateClientRequest is the edit form; Address is applied only when present.
type UpdateClientRequest struct {
	models.CustomerInput
	Address *models.AddressInput `json:"address,omitempty"`
}

type ClientService struct {
	Backend *backend.Client
	audit   audit
	logger  *zap.Logger
}

func NewClientService(client *backend.Client, recorder ActionRecorder, logger *zap.Logger) *ClientService {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("clients")
	return &ClientService{
		Backend: client,
		audit:   audit{recorder: recorder, logger: logger},
		logger:  logger,
	}
}

func newClientRow(c models.Customer) ClientRow {
	return ClientRow{Customer: c, FullName: c.FullName(), Active: c.State == models.CustomerActive}
}

// List reloads customers. q.View filters by state ("A", "I" or empty for all).
func (s *ClientService) List(ctx context.Context, q ListQuery) (*ClientListView, error) {
	customers, err := s.Backend.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	unique := summary.Dedupe(customers, func(c models.Customer) int { return c.CustomerID })
	state := strings.ToUpper(strings.TrimSpace(q.View))

	rows := make([]ClientRow, 0, len(unique))
	ids := make([]int, 0, len(unique))
	for _, c := range unique {
		if state != "" && c.State != state {
			continue
		}
		if !matches(q.Search, c.Name, c.Surname, c.Email, c.PhoneNumber) {
			continue
		}
		rows = append(rows, newClientRow(c))
		ids = append(ids, c.CustomerID)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CustomerID > rows[j].CustomerID })

	sel := selection.Reconcile(q.Selected, q.Fingerprint, ids)
	counts := summary.Clients(unique, len(sel.Selected))
	return &ClientListView{Items: rows, Counts: counts, Cards: counts.Cards(), Selection: sel}, nil
}

// Get returns a customer with its address and requests. Missing address or
// requests degrade to empty values.
func (s *ClientService) Get(ctx context.Context, id int) (*ClientDetail, error) {
	c, err := s.Backend.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Address == nil && c.AddressID != nil && *c.AddressID > 0 {
		addr, err := s.Backend.GetAddress(ctx, *c.AddressID)
		if err != nil {
			s.logger.Warn("client address unavailable", zap.Int("customer_id", id), zap.Error(err))
		} else {
			c.Address = addr
		}
	}
	requests, err := s.Backend.ListRequestsByCustomer(ctx, id)
	if err != nil {
		s.logger.Warn("client requests unavailable", zap.Int("customer_id", id), zap.Error(err))
		requests = []models.ServiceRequest{}
	}
	return &ClientDetail{ClientRow: newClientRow(*c), Requests: requests}, nil
}

// CreateWithAddress stores the address, then the customer pointing at it.
// There is no compensating delete: a failure in the second step returns an
// OrphanedAddressError naming the stored address.
func (s *ClientService) CreateWithAddress(ctx context.Context, req models.CreateClientRequest, q ListQuery) (*models.Customer, *ClientListView, error) {
	req = validate.NormalizeClient(req)
	if err := validate.NewClient(req); err != nil {
		return nil, nil, err
	}

	addr, err := s.Backend.CreateAddress(ctx, req.Address)
	if err != nil {
		s.audit.record(ctx, "create", "address", 0, "", err)
		return nil, nil, fmt.Errorf("create address: %w", err)
	}
	addressID := addr.Key()
	if addressID == 0 {
		err := fmt.Errorf("el backend no devolvió el id de la dirección")
		s.audit.record(ctx, "create", "address", 0, "", err)
		return nil, nil, err
	}
	s.audit.record(ctx, "create", "address", addressID, "", nil)

	created, err := s.Backend.CreateCustomer(ctx, models.CustomerInput{
		Name:        req.Name,
		Surname:     req.Surname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		AddressID:   addressID,
		State:       models.CustomerActive,
	})
	if err != nil {
		s.audit.record(ctx, "create", "customer", 0, fmt.Sprintf("orphaned address %d", addressID), err)
		s.logger.Error("customer creation failed after address", zap.Int("address_id", addressID), zap.Error(err))
		return nil, nil, &OrphanedAddressError{AddressID: addressID, Err: err}
	}
	s.audit.record(ctx, "create", "customer", created.CustomerID, created.Email, nil)

	view, err := s.List(ctx, q)
	return created, view, err
}

// Update edits the customer and, when given, its address.
func (s *ClientService) Update(ctx context.Context, id int, req UpdateClientRequest, q ListQuery) (*ClientListView, error) {
	in := req.CustomerInput
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	errs := validate.Errors{}
	if err := validate.ClientUpdate(in); err != nil {
		fe, _ := validate.AsErrors(err)
		for k, v := range fe {
			errs.Add(k, v)
		}
	}
	if req.Address != nil {
		validate.Address(errs, *req.Address)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if req.Address != nil {
		addressID := in.AddressID
		if addressID == 0 {
			current, err := s.Backend.GetCustomer(ctx, id)
			if err != nil {
				return nil, err
			}
			if current.AddressID != nil {
				addressID = *current.AddressID
			}
		}
		if addressID > 0 {
			err := s.Backend.UpdateAddress(ctx, addressID, *req.Address)
			s.audit.record(ctx, "update", "address", addressID, "", err)
			if err != nil {
				return nil, err
			}
			in.AddressID = addressID
		}
	}

	err := s.Backend.UpdateCustomer(ctx, id, in)
	s.audit.record(ctx, "update", "customer", id, in.Email, err)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, q)
}

// Deactivate is the soft delete of a customer (state I).
func (s *ClientService) Deactivate(ctx context.Context, id int, q ListQuery) (*ClientListView, error) {
	err := s.Backend.DeactivateCustomer(ctx, id)
	s.audit.record(ctx, "deactivate", "customer", id, "", err)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, q)
}

// Restore reactivates a customer (state A).
func (s *ClientService) Restore(ctx context.Context, id int, q ListQuery) (*ClientListView, error) {
	err := s.Backend.RestoreCustomer(ctx, id)
	s.audit.record(ctx, "restore", "customer", id, "", err)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, q)
}
