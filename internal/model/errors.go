package model

import "errors"

// Sentinel errors shared by the repository, service and handler layers.
// Lower layers wrap them with fmt.Errorf("%w: ...") so handlers can map
// them to HTTP status codes with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrSlotTaken          = errors.New("time slot already taken")
	ErrConflict           = errors.New("conflict")
	ErrUnauthenticated    = errors.New("missing credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStorage            = errors.New("storage failure")
)

// NotFoundError names the record that does not exist, e.g. "service 7".
// It matches ErrNotFound under errors.Is.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string { return e.What + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
