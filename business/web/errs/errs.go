// Package errs provides types and support related to web v1 functionality.
package errs

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/state"
	"github.com/ardanlabs/utxochain/foundation/blockchain/worker"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}

// =============================================================================

// FromChain wraps an error returned by the blockchain packages with the
// status code the client should see. Errors that are not recognized are
// returned unchanged and are treated as internal errors.
func FromChain(err error) error {
	switch {
	case errors.Is(err, state.ErrNotFound):
		return NewTrusted(err, http.StatusNotFound)

	case errors.Is(err, database.ErrUnknownParent):
		return NewTrusted(err, http.StatusConflict)

	case errors.Is(err, database.ErrInvalidSignature),
		errors.Is(err, database.ErrMissingInput),
		errors.Is(err, database.ErrOwnerMismatch),
		errors.Is(err, database.ErrValueMismatch),
		errors.Is(err, database.ErrDoubleSpend):
		return NewTrusted(err, http.StatusUnprocessableEntity)

	case errors.Is(err, worker.ErrShutDown):
		return NewTrusted(err, http.StatusServiceUnavailable)
	}

	return err
}
