package models

// DefaultCountry is used when the address form leaves country empty.
const DefaultCountry = "Perú"

type Address struct {
	AddressID  int    `json:"address_id"`
	ID         int    `json:"id,omitempty"`
	Country    string `json:"country"`
	Department string `json:"department"`
	Province   string `json:"province"`
	District   string `json:"district"`
	Street     string `json:"street"`
	ZipCode    string `json:"zip_code,omitempty"`
	Reference  string `json:"reference,omitempty"`
}

// Key returns the generated id, which some backend versions report as "id".
func (a Address) Key() int {
	if a.AddressID != 0 {
		return a.AddressID
	}
	return a.ID
}

type AddressInput struct {
	Country    string `json:"country"`
	Department string `json:"department"`
	Province   string `json:"province"`
	District   string `json:"district"`
	Street     string `json:"street"`
	ZipCode    string `json:"zip_code,omitempty"`
	Reference  string `json:"reference,omitempty"`
}
