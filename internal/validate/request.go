package validate

import (
	"errors"
	"strings"

	"lab-reception/internal/models"
)

var (
	ErrEmptyReason      = errors.New("Debe ingresar un motivo de cancelación.")
	ErrCustomerRequired = errors.New("Seleccione un cliente.")
	ErrEmptyCart        = errors.New("Agregue al menos un servicio a la solicitud.")
)

// CancelReason resolves the reason sent with a cancellation. An empty string
// is rejected; a reason that is blank after trimming becomes the default.
func CancelReason(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmptyReason
	}
	if reason := strings.TrimSpace(raw); reason != "" {
		return reason, nil
	}
	return models.DefaultCancelReason, nil
}

// NewRequest checks the header of a request built from a cart.
func NewRequest(customerID int, items []models.LineItem) error {
	if customerID <= 0 {
		return ErrCustomerRequired
	}
	if len(items) == 0 {
		return ErrEmptyCart
	}
	return nil
}

// RequestUpdate validates an edit of a request header.
func RequestUpdate(in models.UpdateRequestInput) error {
	errs := Errors{}
	if in.CustomerID <= 0 {
		errs.Add("customer_id", ErrCustomerRequired.Error())
	}
	switch in.Status {
	case models.RequestPending, models.RequestCompleted, models.RequestCanceled:
	default:
		errs.Add("status", "Estado de solicitud no válido.")
	}
	return errs.Err()
}
