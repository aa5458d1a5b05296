package services

import (
	"errors"
	"fmt"
	"time"
)

// ErrPropertyNotFound is returned when the referenced listing does not
// exist in the catalog.
var ErrPropertyNotFound = errors.New("property not found")

// ErrBackOfficeCaller is returned when an agency or admin identity
// attempts to create a customer reservation.
var ErrBackOfficeCaller = errors.New("back-office accounts cannot create customer reservations")

// ValidationError rejects a request before any data-store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ConflictError reports that the requested range intersects an active
// block. It carries the conflicting range and a fresh snapshot so the
// caller can propose an alternative without a second round-trip.
type ConflictError struct {
	ConflictingCheckIn  time.Time
	ConflictingCheckOut time.Time
	Snapshot            *AvailabilitySnapshot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("requested dates conflict with an existing reservation (%s to %s)",
		e.ConflictingCheckIn.Format("2006-01-02"), e.ConflictingCheckOut.Format("2006-01-02"))
}
