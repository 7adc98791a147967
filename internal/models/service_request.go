package models

// Service request states.
const (
	RequestPending   = "PENDIENTE"
	RequestCompleted = "COMPLETADA"
	RequestCanceled  = "CANCELADA"
)

// DefaultCancelReason replaces a reason that is blank after trimming.
const DefaultCancelReason = "Cancelada por el usuario"

// RestoreNote is written into notes when a canceled request is reopened.
const RestoreNote = "Restaurada"

type ServiceRequest struct {
	ServiceRequestID int              `json:"service_request_id"`
	CustomerID       int              `json:"customer_id"`
	Customer         *RequestCustomer `json:"customer,omitempty"`
	RequestDate      string           `json:"request_date"`
	Status           string           `json:"status"`
	Notes            string           `json:"notes"`
	Items            []RequestItem    `json:"items"`
	TotalEstimated   float64          `json:"total_estimated"`
}

// CustomerKey returns the customer id from the embedded customer if present.
func (r ServiceRequest) CustomerKey() int {
	if r.Customer != nil && r.Customer.ID != 0 {
		return r.Customer.ID
	}
	return r.CustomerID
}

type RequestCustomer struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

type RequestItem struct {
	ServiceTypeID int     `json:"service_type_id"`
	ServiceName   string  `json:"service_name,omitempty"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Subtotal      float64 `json:"subtotal"`
}

// LineItem is the only per-line data sent when a request is created.
type LineItem struct {
	ServiceTypeID int `json:"service_type_id"`
	Quantity      int `json:"quantity"`
}

type CreateRequestInput struct {
	CustomerID int        `json:"customer_id"`
	Notes      string     `json:"notes"`
	Items      []LineItem `json:"items"`
}

type UpdateRequestInput struct {
	CustomerID int    `json:"customer_id"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

type CancelRequestInput struct {
	Reason string `json:"reason"`
}
