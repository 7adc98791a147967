// Package validate holds the form checks that run before any backend call.
package validate

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	nameRegex  = regexp.MustCompile(`^[A-Za-zñÑáéíóúÁÉÍÓÚ\s]*$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^9\d{8}$`)
)

// FormMessage is the banner shown above a form with field errors.
const FormMessage = "Hay errores en el formulario. Por favor revisa los campos marcados."

// Errors maps a form field to its message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return FormMessage + " (" + strings.Join(parts, "; ") + ")"
}

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Err returns e as an error, or nil when empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// AsErrors extracts field errors from err.
func AsErrors(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

var ErrInvalidID = errors.New("identificador inválido")

// ID parses a positive path identifier.
func ID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func required(errs Errors, field, value, msg string) {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, msg)
	}
}
