// Package cart builds the bounded list of service line items of a new request.
package cart

import (
	"errors"
	"strconv"
	"strings"

	"lab-reception/internal/models"
)

const (
	MaxItems    = 5
	MaxQuantity = 5
	MinQuantity = 1

	// UnknownServiceName labels a line whose service type is missing from the catalog.
	UnknownServiceName = "Desconocido"
)

var (
	ErrCartFull         = errors.New("Has alcanzado el límite máximo de 5 servicios por solicitud.")
	ErrDuplicateService = errors.New("Este servicio ya está en la lista. Si necesitas más cantidad, elimínalo y agrégalo nuevamente con la cantidad correcta.")
	ErrInvalidQuantity  = errors.New("La cantidad debe ser un número entre 1 y 5.")
	ErrNoService        = errors.New("Seleccione un tipo de servicio.")
	ErrItemNotFound     = errors.New("El servicio no está en la lista.")
)

// Item is a line in the cart. UnitPrice and Subtotal are display only.
type Item struct {
	TempID        int     `json:"temp_id"`
	ServiceTypeID int     `json:"service_type_id"`
	ServiceName   string  `json:"service_name"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Subtotal      float64 `json:"subtotal"`
}

// Quantity is a parsed quantity field. An empty quantity has Valid false.
type Quantity struct {
	Value int
	Valid bool
}

// ParseQuantity reads the quantity input. Non-numeric or non-positive input
// yields an empty quantity; values above MaxQuantity are clamped.
func ParseQuantity(raw string) Quantity {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < MinQuantity {
		return Quantity{}
	}
	if n > MaxQuantity {
		n = MaxQuantity
	}
	return Quantity{Value: n, Valid: true}
}

// Builder accumulates line items priced from a loaded service-type catalog.
// It is not safe for concurrent use.
type Builder struct {
	prices map[int]models.ServiceType
	items  []Item
	nextID int
}

func NewBuilder(catalog []models.ServiceType) *Builder {
	prices := make(map[int]models.ServiceType, len(catalog))
	for _, st := range catalog {
		prices[st.ServiceTypeID] = st
	}
	return &Builder{prices: prices, nextID: 1}
}

// Add appends a line for serviceTypeID. The cart is left unchanged when an
// error is returned.
func (b *Builder) Add(serviceTypeID int, qty Quantity) (Item, error) {
	if serviceTypeID <= 0 {
		return Item{}, ErrNoService
	}
	if !qty.Valid || qty.Value < MinQuantity {
		return Item{}, ErrInvalidQuantity
	}
	if len(b.items) >= MaxItems {
		return Item{}, ErrCartFull
	}
	if b.Contains(serviceTypeID) {
		return Item{}, ErrDuplicateService
	}

	n := qty.Value
	if n > MaxQuantity {
		n = MaxQuantity
	}

	item := Item{
		TempID:        b.nextID,
		ServiceTypeID: serviceTypeID,
		ServiceName:   UnknownServiceName,
		Quantity:      n,
	}
	if st, ok := b.prices[serviceTypeID]; ok {
		if st.ServiceName != "" {
			item.ServiceName = st.ServiceName
		}
		item.UnitPrice = st.UnitPrice
	}
	item.Subtotal = item.UnitPrice * float64(n)

	b.nextID++
	b.items = append(b.items, item)
	return item, nil
}

// Remove drops the line with tempID.
func (b *Builder) Remove(tempID int) error {
	for i, it := range b.items {
		if it.TempID == tempID {
			b.items = append(b.items[:i:i], b.items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (b *Builder) Contains(serviceTypeID int) bool {
	for _, it := range b.items {
		if it.ServiceTypeID == serviceTypeID {
			return true
		}
	}
	return false
}

func (b *Builder) Len() int { return len(b.items) }

func (b *Builder) Full() bool { return len(b.items) >= MaxItems }

// Items returns a copy of the lines in insertion order.
func (b *Builder) Items() []Item {
	out := make([]Item, len(b.items))
	copy(out, b.items)
	return out
}

// Total is the estimated request total shown under the cart.
func (b *Builder) Total() float64 {
	var total float64
	for _, it := range b.items {
		total += it.Subtotal
	}
	return total
}

// Payload returns the lines as sent to the backend on create.
func (b *Builder) Payload() []models.LineItem {
	out := make([]models.LineItem, 0, len(b.items))
	for _, it := range b.items {
		out = append(out, models.LineItem{ServiceTypeID: it.ServiceTypeID, Quantity: it.Quantity})
	}
	return out
}

// Option is a service type as offered in the add-line dropdown.
type Option struct {
	ServiceTypeID int     `json:"service_type_id"`
	ServiceName   string  `json:"service_name"`
	UnitPrice     float64 `json:"unit_price"`
	Disabled      bool    `json:"disabled"`
}

// Available lists the catalog with options already in the cart disabled.
// Every option is disabled once the cart is full.
func (b *Builder) Available(catalog []models.ServiceType) []Option {
	full := b.Full()
	out := make([]Option, 0, len(catalog))
	for _, st := range catalog {
		out = append(out, Option{
			ServiceTypeID: st.ServiceTypeID,
			ServiceName:   st.ServiceName,
			UnitPrice:     st.UnitPrice,
			Disabled:      full || b.Contains(st.ServiceTypeID),
		})
	}
	return out
}
