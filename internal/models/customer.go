package models

// Customer states.
const (
	CustomerActive   = "A"
	CustomerInactive = "I"
)

type Customer struct {
	CustomerID  int      `json:"customer_id"`
	Name        string   `json:"name"`
	Surname     string   `json:"surname"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phone_number"`
	State       string   `json:"state"`
	AddressID   *int     `json:"address_id,omitempty"`
	Address     *Address `json:"address,omitempty"`
}

// FullName joins name and surname, skipping empty parts.
func (c Customer) FullName() string {
	switch {
	case c.Name == "":
		return c.Surname
	case c.Surname == "":
		return c.Name
	default:
		return c.Name + " " + c.Surname
	}
}

// CustomerInput is the body sent to the backend on create and update.
type CustomerInput struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	AddressID   int    `json:"address_id,omitempty"`
	State       string `json:"state,omitempty"`
}

// CreateClientRequest carries both steps of the client creation form.
type CreateClientRequest struct {
	Name        string       `json:"name"`
	Surname     string       `json:"surname"`
	Email       string       `json:"email"`
	PhoneNumber string       `json:"phone_number"`
	Address     AddressInput `json:"address"`
}
