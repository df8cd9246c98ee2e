package solver

import (
	"errors"
	"fmt"
)

// ErrInvalidCoordinate is returned when a node's latitude or longitude is
// outside the valid domain. The offending record is rejected before any
// optimization starts.
type ErrInvalidCoordinate struct {
	NodeID string
	Point  GeoPoint
}

func (e ErrInvalidCoordinate) Error() string {
	return fmt.Sprintf("node %s: coordinate out of range (lat=%g, lon=%g)", e.NodeID, e.Point.Lat, e.Point.Lon)
}

// ErrInsufficientData is returned when the input point sets cannot support
// a meaningful optimization (empty suppliers, customers, or shipments, or
// a non-finite objective).
type ErrInsufficientData struct {
	Reason string
}

func (e ErrInsufficientData) Error() string {
	return "insufficient data: " + e.Reason
}

// ErrInvalidInput is returned for malformed request fields that are not
// coordinate-range violations.
type ErrInvalidInput struct {
	Field  string
	Reason string
}

func (e ErrInvalidInput) Error() string {
	return e.Field + ": " + e.Reason
}

// IsValidationError reports whether err is one of the fail-fast input
// errors, as opposed to a solver-internal failure.
func IsValidationError(err error) bool {
	var coord ErrInvalidCoordinate
	var data ErrInsufficientData
	var input ErrInvalidInput
	return errors.As(err, &coord) || errors.As(err, &data) || errors.As(err, &input)
}
