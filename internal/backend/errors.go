package backend

import (
	"errors"
	"fmt"
)

// ErrUnreachable is matched by every transport-level failure.
var ErrUnreachable = errors.New("backend unreachable")

// UnreachableError is returned when no HTTP response was received.
type UnreachableError struct {
	BaseURL string
	Err     error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("No se puede conectar al servidor. Verifique que el backend esté corriendo en %s", e.BaseURL)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

func (e *UnreachableError) Is(target error) bool { return target == ErrUnreachable }

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
	Method  string
	Path    string
}

func (e *APIError) Error() string { return e.Message }

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}
