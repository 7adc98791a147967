package validate

import (
	"strings"

	"lab-reception/internal/models"
)

// Person validates the name, contact and phone fields shared by create and update.
func Person(errs Errors, name, surname, email, phone string) {
	required(errs, "name", name, "El nombre es obligatorio.")
	required(errs, "surname", surname, "El apellido es obligatorio.")
	required(errs, "email", email, "El email es obligatorio.")

	if !nameRegex.MatchString(name) {
		errs.Add("name", "Solo se permiten letras y espacios. No se permiten números.")
	}
	if !nameRegex.MatchString(surname) {
		errs.Add("surname", "Solo se permiten letras y espacios. No se permiten números.")
	}
	if e := strings.TrimSpace(email); e != "" && !emailRegex.MatchString(e) {
		errs.Add("email", "El formato del email no es válido (ej. usuario@dominio.com).")
	}
	if p := strings.TrimSpace(phone); p != "" && !phoneRegex.MatchString(p) {
		errs.Add("phone_number", "El teléfono debe tener 9 dígitos y empezar con 9.")
	}
}

// Address validates the mandatory address fields.
func Address(errs Errors, a models.AddressInput) {
	required(errs, "department", a.Department, "El Departamento es obligatorio.")
	required(errs, "province", a.Province, "La Provincia es obligatoria.")
	required(errs, "district", a.District, "El Distrito es obligatorio.")
	required(errs, "street", a.Street, "La Calle/Dirección es obligatoria.")
}

// NewClient validates the two-step client creation form.
func NewClient(req models.CreateClientRequest) error {
	errs := Errors{}
	Person(errs, req.Name, req.Surname, req.Email, req.PhoneNumber)
	Address(errs, req.Address)
	return errs.Err()
}

// ClientUpdate validates an edit of an existing client.
func ClientUpdate(in models.CustomerInput) error {
	errs := Errors{}
	Person(errs, in.Name, in.Surname, in.Email, in.PhoneNumber)
	if in.State != "" && in.State != models.CustomerActive && in.State != models.CustomerInactive {
		errs.Add("state", "El estado debe ser A o I.")
	}
	return errs.Err()
}

// NormalizeClient trims every field and applies the default country.
func NormalizeClient(req models.CreateClientRequest) models.CreateClientRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Surname = strings.TrimSpace(req.Surname)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	a := &req.Address
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = models.DefaultCountry
	}
	a.Department = strings.TrimSpace(a.Department)
	a.Province = strings.TrimSpace(a.Province)
	a.District = strings.TrimSpace(a.District)
	a.Street = strings.TrimSpace(a.Street)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
	a.Reference = strings.TrimSpace(a.Reference)
	return req
}
