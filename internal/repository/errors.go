// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrEmailExists signals that a guest intake tried to register
// an email that already owns a customer account, while ErrAlreadyPaid
// signals an attempt to pay for an order that is already official.
package repository

import "errors"

// ErrNotFound is returned when a record does not exist. Mutating
// operations that race with a cross-context delete should treat this
// defensively (no-op or 404) rather than panic.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating a customer account with an
// email that is already registered. Handlers should translate this
// into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyPaid is returned when starting a payment for an order whose
// IsOrder flag is already set. Handlers should translate this into an
// HTTP 409 response.
var ErrAlreadyPaid = errors.New("order already paid")

// ErrNotQuoted is returned when starting a payment for an order that
// has no quote yet (total price is zero).
var ErrNotQuoted = errors.New("order has no quote")

// ErrValidation is returned when input fails a numeric or required-field
// check inside the repository or pricing layer. Handlers should
// translate this into an HTTP 400 response.
var ErrValidation = errors.New("invalid input")
