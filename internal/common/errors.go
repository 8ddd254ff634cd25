// Package common defines shared constants and sentinel errors used across
// the client layers of MyJournal. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Form errors. Returned before anything reaches the network.
	ErrValidation = errors.New("validation error")

	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("operation already in progress")
)
